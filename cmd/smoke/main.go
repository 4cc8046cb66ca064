package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

const defaultAPIBase = "http://localhost:8080"

var (
	apiBase    string
	client     = &http.Client{Timeout: 120 * time.Second}
	clientID   string
	scenarioID string
	metadataID string
)

func main() {
	fmt.Println("=== Advisor Hub E2E Smoke Test ===")
	fmt.Println()

	apiBase = getEnv("API_BASE_URL", defaultAPIBase)
	fmt.Printf("API Base: %s\n", apiBase)
	fmt.Println()

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Healthz", testHealthz},
		{"Create Client", testCreateClient},
		{"Create Scenario", testCreateScenario},
		{"Preview Report", testPreviewReport},
		{"Generate Report (HTML)", testGenerateReportHTML},
		{"Generate Report (PDF)", testGenerateReportPDF},
		{"List Report History", testListReports},
		{"Get Report Metadata", testGetReport},
		{"Download Report", testDownloadReport},
		{"Start Async Report", testStartAsyncReport},
	}

	failed := false
	for i, step := range steps {
		fmt.Printf("[%d/%d] %s... ", i+1, len(steps), step.name)
		if err := step.fn(); err != nil {
			fmt.Printf("❌ FAILED\n")
			fmt.Printf("  Error: %v\n\n", err)
			failed = true
			break
		}
		fmt.Printf("✅ OK\n")
	}

	fmt.Println()
	if failed {
		fmt.Println("❌ SMOKE TEST FAILED")
		os.Exit(1)
	}

	fmt.Println("✅ ALL SMOKE TESTS PASSED")
}

func testHealthz() error {
	resp, err := client.Get(apiBase + "/healthz")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return nil
}

func testCreateClient() error {
	payload := map[string]interface{}{
		"firstName":   "Margaret",
		"lastName":    "Holt",
		"email":       "margaret.holt@example.com",
		"dateOfBirth": "1975-04-12",
		"advisorName": "J. Whitfield",
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := postJSON("/v1/clients", payload, http.StatusCreated, &result); err != nil {
		return err
	}
	if result.ID == "" {
		return fmt.Errorf("no client id returned")
	}
	clientID = result.ID
	return nil
}

func testCreateScenario() error {
	payload := map[string]interface{}{
		"clientId":        clientID,
		"name":            "Retirement at 65",
		"kind":            "retirement",
		"currentAge":      50,
		"retirementAge":   65,
		"statePensionAge": 68,
		"lifeExpectancy":  90,
		"pensionValue":    350000,
		"investmentValue": 120000,
		"cashValue":       40000,
		"annualIncome":    85000,
		"annualExpenses":  52000,
		"growthRate":      0.05,
		"inflationRate":   0.025,
		"equitiesPct":     60,
		"bondsPct":        25,
		"cashPct":         10,
		"alternativesPct": 5,
		"capitalEvents": []map[string]interface{}{
			{"age": 60, "label": "Inheritance", "amount": 100000},
		},
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := postJSON("/v1/scenarios", payload, http.StatusCreated, &result); err != nil {
		return err
	}
	if result.ID == "" {
		return fmt.Errorf("no scenario id returned")
	}
	scenarioID = result.ID
	return nil
}

func testPreviewReport() error {
	payload := map[string]interface{}{
		"scenarioId": scenarioID,
		"reportKind": "cashflow",
	}

	var result struct {
		Success     bool   `json:"success"`
		HTMLContent string `json:"htmlContent"`
	}
	if err := postJSON("/v1/reports/preview", payload, http.StatusOK, &result); err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("preview not successful")
	}
	if !strings.Contains(result.HTMLContent, "Margaret Holt") {
		return fmt.Errorf("preview markup missing client name")
	}
	return nil
}

func testGenerateReportHTML() error {
	payload := map[string]interface{}{
		"scenarioId": scenarioID,
		"reportKind": "cashflow",
		"options":    map[string]interface{}{"outputFormat": "html"},
	}

	var result struct {
		ReportID    string `json:"reportId"`
		Success     bool   `json:"success"`
		DownloadURL string `json:"downloadUrl"`
		MetadataID  string `json:"metadataId"`
		Error       string `json:"error"`
	}
	if err := postJSON("/v1/reports", payload, http.StatusOK, &result); err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("generation failed: %s", result.Error)
	}
	if result.DownloadURL == "" {
		return fmt.Errorf("no download URL returned")
	}
	metadataID = result.MetadataID
	return nil
}

func testGenerateReportPDF() error {
	payload := map[string]interface{}{
		"scenarioId": scenarioID,
		"reportKind": "cashflow",
		"options":    map[string]interface{}{"outputFormat": "pdf"},
	}

	var result struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := postJSON("/v1/reports", payload, http.StatusOK, &result); err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("generation failed: %s", result.Error)
	}
	return nil
}

func testListReports() error {
	resp, err := client.Get(apiBase + "/v1/reports?client_id=" + clientID)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	var result struct {
		Reports []struct {
			ID string `json:"ID"`
		} `json:"reports"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if len(result.Reports) < 2 {
		return fmt.Errorf("expected at least 2 reports in history, got %d", len(result.Reports))
	}
	return nil
}

func testGetReport() error {
	if metadataID == "" {
		return fmt.Errorf("no metadata id from generation step")
	}

	resp, err := client.Get(apiBase + "/v1/reports/" + metadataID)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return nil
}

func testDownloadReport() error {
	if metadataID == "" {
		return fmt.Errorf("no metadata id from generation step")
	}

	resp, err := client.Get(apiBase + "/v1/reports/" + metadataID + "/download")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return fmt.Errorf("empty report body")
	}
	return nil
}

func testStartAsyncReport() error {
	payload := map[string]interface{}{
		"scenarioId": scenarioID,
		"reportKind": "review",
	}

	var result struct {
		ReportID string `json:"reportId"`
		Status   string `json:"status"`
	}
	if err := postJSON("/v1/reports?async=true", payload, http.StatusAccepted, &result); err != nil {
		return err
	}
	if result.ReportID == "" {
		return fmt.Errorf("no report id returned")
	}
	return nil
}

// ---- helpers ----

func postJSON(path string, payload interface{}, wantStatus int, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", apiBase+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return statusError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode failed: %w", err)
		}
	}
	return nil
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
