// file: pkg/attendanceclient/writer.go
package attendanceclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	dto "sanggarku_backend/internals/features/attendance/dto"
)

/* =========================
   Request / error types
   ========================= */

type WriteRequest struct {
	EventID  uuid.UUID
	MemberID uuid.UUID
	Status   string
	Note     *string
}

// APIError: error terstruktur dari backend (error_code dari envelope).
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("attendance api: %s (%d): %s", e.Code, e.Status, e.Message)
}

// IsRosterLocked: roster ditutup → bukan error baris, tapi state
// disabled-input untuk seluruh layar.
func IsRosterLocked(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Code == "ROSTER_LOCKED"
}

// IsTerminal: error yang tidak boleh di-retry otomatis. NOT_FOUND butuh
// reload halaman, INVALID_STATUS/VALIDATION_ERROR berarti bug klien.
// Hanya error_code yang dikenal yang terminal; selain itu (timeout,
// network, 5xx, 429 rate limit, 4xx tanpa error_code) dianggap
// transient dan di-retry sampai service pulih.
func IsTerminal(err error) bool {
	apiErr, ok := err.(*APIError)
	if !ok {
		return false
	}
	switch apiErr.Code {
	case "ROSTER_LOCKED", "NOT_FOUND", "INVALID_STATUS", "VALIDATION_ERROR", "BAD_REQUEST":
		return true
	}
	return false
}

/* =========================
   Writer
   ========================= */

// Writer mengirim satu penulisan absensi ke service. Panggilan yang
// sudah terkirim selalu jalan sampai selesai; pembatalan hanya berlaku
// untuk timer retry, bukan request in-flight.
type Writer interface {
	RecordAttendance(ctx context.Context, req WriteRequest) (*dto.AttendanceRecordResponse, error)
}

// WriterFunc adapter (dipakai juga di test).
type WriterFunc func(ctx context.Context, req WriteRequest) (*dto.AttendanceRecordResponse, error)

func (f WriterFunc) RecordAttendance(ctx context.Context, req WriteRequest) (*dto.AttendanceRecordResponse, error) {
	return f(ctx, req)
}

/* =========================
   HTTP writer
   ========================= */

type HTTPWriter struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewHTTPWriter(baseURL, token string) *HTTPWriter {
	return &HTTPWriter{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type recordEnvelope struct {
	Success   bool                          `json:"success"`
	Message   string                        `json:"message"`
	ErrorCode string                        `json:"error_code"`
	Data      *dto.AttendanceRecordResponse `json:"data"`
}

func (w *HTTPWriter) RecordAttendance(ctx context.Context, req WriteRequest) (*dto.AttendanceRecordResponse, error) {
	payload := map[string]interface{}{
		"member_id": req.MemberID,
		"status":    req.Status,
	}
	if req.Note != nil {
		payload["note"] = *req.Note
	}
	body, err := sonic.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/api/a/events/%s/attendance", w.BaseURL, req.EventID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if w.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+w.Token)
	}

	resp, err := w.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, err // network/timeout → transient
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var env recordEnvelope
	if err := sonic.Unmarshal(raw, &env); err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Success {
		code := env.ErrorCode
		if code == "" {
			code = "INTERNAL_ERROR"
		}
		return nil, &APIError{Status: resp.StatusCode, Code: code, Message: env.Message}
	}
	return env.Data, nil
}
