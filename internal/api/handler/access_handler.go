package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gymcore/gym-api/internal/core/domain"
	"github.com/gymcore/gym-api/internal/core/ports"
)

// AccessHandler exposes QR scanning and attendance queries.
type AccessHandler struct {
	service ports.AccessService
}

func NewAccessHandler(service ports.AccessService) *AccessHandler {
	return &AccessHandler{service: service}
}

// qrData is the payload decoded from a member QR code. Timestamp is accepted
// as epoch milliseconds (number or numeric string) or an RFC 3339 string.
type qrData struct {
	ID        string          `json:"id"`
	Timestamp json.RawMessage `json:"timestamp"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
}

type scanRequest struct {
	QRData   *qrData `json:"qrData"   validate:"required"`
	CenterID string  `json:"centerId" validate:"required"`
}

type scanResponse struct {
	Success bool              `json:"success"`
	Type    domain.AccessKind `json:"type"`
	Message string            `json:"message"`
	User    domain.PublicUser `json:"user"`
}

// Scan registers an entry or exit for the member whose QR code was read.
func (h *AccessHandler) Scan(c echo.Context) error {
	operator, err := caller(c)
	if err != nil {
		return err
	}
	var req scanRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	issuedAt, err := parseScanTimestamp(req.QRData.Timestamp)
	if err != nil {
		return err
	}

	res, err := h.service.ProcessScan(c.Request().Context(), operator, ports.ScanInput{
		Token: domain.ScanToken{
			SubjectID: strings.TrimSpace(req.QRData.ID),
			IssuedAt:  issuedAt,
			Email:     req.QRData.Email,
			Name:      req.QRData.Name,
		},
		CenterID: strings.TrimSpace(req.CenterID),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, scanResponse{
		Success: true,
		Type:    res.Kind,
		Message: scanMessage(res.Kind),
		User:    res.User,
	})
}

func scanMessage(kind domain.AccessKind) string {
	if kind == domain.AccessExit {
		return "Exit registered"
	}
	return "Entry registered"
}

func parseScanTimestamp(raw json.RawMessage) (time.Time, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}, domain.ErrInvalidScanToken
	}

	var ms int64
	if err := json.Unmarshal(raw, &ms); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, domain.ErrInvalidScanToken
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(n).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, domain.ErrInvalidScanToken
	}
	return t.UTC(), nil
}

// QR returns a freshly stamped payload for the caller's QR code.
func (h *AccessHandler) QR(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	payload, err := h.service.IssueQR(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(payload))
}

// History lists attendance events, optionally filtered by user, center and
// an RFC 3339 time window.
func (h *AccessHandler) History(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}

	filter := ports.AccessHistoryFilter{
		UserID:   c.QueryParam("user_id"),
		CenterID: c.QueryParam("center_id"),
	}
	if filter.From, err = queryTime(c, "from"); err != nil {
		return err
	}
	if filter.To, err = queryTime(c, "to"); err != nil {
		return err
	}
	if filter.Limit, err = queryInt(c, "limit"); err != nil {
		return err
	}

	events, err := h.service.History(c.Request().Context(), id, filter)
	if err != nil {
		return err
	}
	if events == nil {
		events = []domain.AccessEvent{}
	}
	return c.JSON(http.StatusOK, success(events))
}

// Present lists the users currently inside the center in the path.
func (h *AccessHandler) Present(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	users, err := h.service.Present(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(users))
}

func queryTime(c echo.Context, name string) (time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, domain.Invalid(name + " must be an RFC 3339 timestamp")
	}
	return t, nil
}
