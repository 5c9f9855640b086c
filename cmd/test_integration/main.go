package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Smoke test for a running server: POSTs the strawberry corpus to /triage
// and checks the buckets that come back.

func main() {
	baseURL := os.Getenv("TOPICSCAN_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	client := &http.Client{Timeout: 5 * time.Minute}

	fmt.Println("1. Health check...")
	resp, err := client.Get(baseURL + "/healthz")
	if err != nil || resp.StatusCode != http.StatusOK {
		fmt.Printf("FAILED: health check: %v\n", err)
		os.Exit(1)
	}
	resp.Body.Close()
	fmt.Println("PASSED: Health check")

	fmt.Println("2. Triage...")
	payload := map[string]interface{}{
		"topic": "strawberry model",
		"documents": map[string]string{
			"a.txt": "The strawberry model explains recursive self-reference.",
			"b.txt": "Unrelated content about weather.",
		},
	}

	var report struct {
		Categorized map[string][]string `json:"categorized_results"`
		Detailed    map[string]string   `json:"detailed_results"`
		Errors      map[string]string   `json:"errors"`
	}
	if !sendRequest(client, baseURL+"/triage", payload, &report) {
		fmt.Println("FAILED: Triage")
		os.Exit(1)
	}

	for label, files := range report.Categorized {
		fmt.Printf("  %s: %v\n", label, files)
	}
	if len(report.Errors) > 0 {
		fmt.Printf("FAILED: per-document errors: %v\n", report.Errors)
		os.Exit(1)
	}
	if _, ok := report.Detailed["b.txt"]; ok {
		fmt.Println("FAILED: unrelated document was refined")
		os.Exit(1)
	}
	fmt.Println("PASSED: Triage")
}

func sendRequest(client *http.Client, url string, payload interface{}, out interface{}) bool {
	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		fmt.Printf("Error encoding request: %v\n", err)
		return false
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonBytes))
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return false
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Printf("Error reading response: %v\n", err)
		return false
	}
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return false
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		fmt.Printf("Error decoding response: %v\n", err)
		return false
	}
	return true
}
