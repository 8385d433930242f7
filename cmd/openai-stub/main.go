// Command openai-stub is a tiny OpenAI-compatible server for developing and
// testing the advisory pass without a real model. It answers every reviewer
// prompt with a fixed strict-JSON assessment.
package main

import (
    "encoding/json"
    "log"
    "net/http"
    "os"
    "strings"
)

type chatRequest struct {
    Model    string `json:"model"`
    Messages []struct {
        Role    string `json:"role"`
        Content string `json:"content"`
    } `json:"messages"`
}

func main() {
    model := os.Getenv("MODEL_ID")
    if strings.TrimSpace(model) == "" {
        model = "test-model"
    }
    addr := os.Getenv("ADDR")
    if strings.TrimSpace(addr) == "" {
        addr = ":8081"
    }

    mux := http.NewServeMux()
    mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
        w.Header().Set("Content-Type", "application/json")
        _ = json.NewEncoder(w).Encode(map[string]any{
            "data": []map[string]any{{"id": model, "object": "model"}},
        })
    })
    mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
        defer r.Body.Close()
        var req chatRequest
        _ = json.NewDecoder(r.Body).Decode(&req)
        sys := ""
        if len(req.Messages) > 0 {
            sys = strings.TrimSpace(req.Messages[0].Content)
        }
        if !strings.Contains(sys, "citation reviewer") {
            http.Error(w, "unexpected system prompt", http.StatusBadRequest)
            return
        }
        assessment := map[string]any{
            "assessment": "The quoted text appears loosely supported by the source excerpt.",
            "confidence": 0.55,
        }
        // No located passage means the reviewer cannot vouch for the quote.
        for _, m := range req.Messages {
            if strings.Contains(m.Content, "no matching passage was located") {
                assessment = map[string]any{
                    "assessment": "No supporting passage was found in the source.",
                    "confidence": 0.1,
                }
                break
            }
        }
        b, _ := json.Marshal(assessment)
        w.Header().Set("Content-Type", "application/json")
        _ = json.NewEncoder(w).Encode(map[string]any{
            "choices": []map[string]any{
                {"message": map[string]string{"role": "assistant", "content": string(b)}},
            },
        })
    })

    log.Printf("openai-stub listening on %s (model=%s)", addr, model)
    if err := http.ListenAndServe(addr, mux); err != nil {
        log.Fatal(err)
    }
}
