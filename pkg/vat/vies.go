package vat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const viesURL = "https://ec.europa.eu/taxation_customs/vies/rest-api/check-vat-number"

// ViesResult is the outcome of a VIES VAT number check.
type ViesResult struct {
	Valid       bool
	RequestDate string
	Name        string
	Address     string
}

// ViesErrorKind distinguishes network, API, and parse failures from the
// VIES service.
type ViesErrorKind int

const (
	ViesErrorNetwork ViesErrorKind = iota
	ViesErrorAPI
	ViesErrorParse
)

// ViesError wraps a failure from the VIES API.
type ViesError struct {
	Kind    ViesErrorKind
	Message string
}

func (e *ViesError) Error() string {
	switch e.Kind {
	case ViesErrorNetwork:
		return fmt.Sprintf("VIES network error: %s", e.Message)
	case ViesErrorAPI:
		return fmt.Sprintf("VIES API error: %s", e.Message)
	default:
		return fmt.Sprintf("VIES parse error: %s", e.Message)
	}
}

type viesRequest struct {
	CountryCode string `json:"countryCode"`
	VatNumber   string `json:"vatNumber"`
}

type viesErrorWrapper struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type viesAPIResponse struct {
	Valid         *bool              `json:"valid"`
	RequestDate   string             `json:"requestDate"`
	Name          string             `json:"name"`
	Address       string             `json:"address"`
	ErrorWrappers []viesErrorWrapper `json:"errorWrappers"`
}

var viesClient = &http.Client{Timeout: 30 * time.Second}

// CheckVIES checks a VAT number against the EU VIES registry. countryCode
// is the 2-letter ISO code (e.g. "DE"); vatNumber is the number part
// without the country prefix. Requires network access.
func CheckVIES(ctx context.Context, countryCode, vatNumber string) (ViesResult, error) {
	reqBody, err := json.Marshal(viesRequest{
		CountryCode: strings.ToUpper(countryCode),
		VatNumber:   vatNumber,
	})
	if err != nil {
		return ViesResult{}, &ViesError{Kind: ViesErrorNetwork, Message: err.Error()}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, viesURL, bytes.NewReader(reqBody))
	if err != nil {
		return ViesResult{}, &ViesError{Kind: ViesErrorNetwork, Message: err.Error()}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := viesClient.Do(httpReq)
	if err != nil {
		return ViesResult{}, &ViesError{Kind: ViesErrorNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ViesResult{}, &ViesError{Kind: ViesErrorNetwork, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ViesResult{}, &ViesError{
			Kind:    ViesErrorAPI,
			Message: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body)),
		}
	}

	var apiResp viesAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return ViesResult{}, &ViesError{Kind: ViesErrorParse, Message: err.Error()}
	}

	if len(apiResp.ErrorWrappers) > 0 {
		w := apiResp.ErrorWrappers[0]
		msg := w.Message
		if msg == "" {
			msg = w.Error
		}
		if msg == "" {
			msg = "unknown error"
		}
		return ViesResult{}, &ViesError{Kind: ViesErrorAPI, Message: msg}
	}

	valid := false
	if apiResp.Valid != nil {
		valid = *apiResp.Valid
	}

	return ViesResult{
		Valid:       valid,
		RequestDate: apiResp.RequestDate,
		Name:        filterDash(apiResp.Name),
		Address:     filterDash(apiResp.Address),
	}, nil
}

func filterDash(s string) string {
	if s == "---" || s == "" {
		return ""
	}
	return s
}
