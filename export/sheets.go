/*
Package export pushes debt rows to an external spreadsheet sink.

PURPOSE:
  Optional analytics edge: every added debt is appended as one row to a
  Google Sheets document through the values:append endpoint, authorized by
  a restricted API key. This is fire-and-forget, best-effort - the sink is
  not part of the ledger's correctness and silently no-ops when no
  spreadsheet is configured.

SEE ALSO:
  - store: the Exporter interface and where Append is invoked
*/
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/norwaiw/NetDebt/ledger"
)

const defaultBaseURL = "https://sheets.googleapis.com/v4/spreadsheets"

// Config identifies the target spreadsheet. Zero SpreadsheetID or APIKey
// disables the exporter.
type Config struct {
	SpreadsheetID string
	APIKey        string
	Range         string // e.g. "Sheet1!A:H"
	BaseURL       string // overridable for tests
}

// SheetsExporter implements store.Exporter against the Sheets append API.
type SheetsExporter struct {
	cfg    Config
	client *http.Client
	log    *slog.Logger
}

// NewSheets builds an exporter. The returned exporter no-ops until both
// the spreadsheet id and API key are set.
func NewSheets(cfg Config, log *slog.Logger) *SheetsExporter {
	if cfg.Range == "" {
		cfg.Range = "Sheet1!A:H"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if log == nil {
		log = slog.Default()
	}
	return &SheetsExporter{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}
}

func (e *SheetsExporter) configured() bool {
	return e.cfg.SpreadsheetID != "" && e.cfg.APIKey != ""
}

// Append uploads one row for the debt in the background. Failures are
// logged and dropped.
func (e *SheetsExporter) Append(debt ledger.Debt) {
	if !e.configured() {
		return
	}
	go e.send(debt)
}

func (e *SheetsExporter) send(debt ledger.Debt) {
	body, err := json.Marshal(map[string]any{
		"values": [][]string{rowFor(debt)},
	})
	if err != nil {
		e.log.Warn("sheets export: marshal failed", "err", err)
		return
	}

	endpoint := fmt.Sprintf("%s/%s/values/%s:append?valueInputOption=USER_ENTERED&key=%s",
		e.cfg.BaseURL,
		url.PathEscape(e.cfg.SpreadsheetID),
		url.PathEscape(e.cfg.Range),
		url.QueryEscape(e.cfg.APIKey))

	resp, err := e.client.Post(endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		e.log.Warn("sheets export failed", "debt_id", debt.ID, "err", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		e.log.Warn("sheets export rejected", "debt_id", debt.ID, "status", resp.StatusCode)
		return
	}
	e.log.Debug("sheets export ok", "debt_id", debt.ID)
}

func rowFor(debt ledger.Debt) []string {
	direction := "i_owe"
	if debt.IsOwedToMe {
		direction = "owed_to_me"
	}
	due := ""
	if debt.DueDate != nil {
		due = debt.DueDate.Format("2006-01-02")
	}
	return []string{
		debt.DateCreated.Format("2006-01-02"),
		debt.PersonName,
		direction,
		debt.Amount.String(),
		debt.Currency,
		due,
		string(debt.Status()),
		debt.Notes,
	}
}
