// Package sheet talks to a hosted spreadsheet values API. It is the remote
// destination of the record store; transport failures are ordinary outcomes
// the adapter recovers from, not faults.
package sheet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"farmbook/backend/internal/table"
)

var ErrNotFound = errors.New("spreadsheet not found")

const defaultBaseURL = "https://sheets.googleapis.com"

// readRange is wide enough for any worksheet this application writes.
const readRange = "A1:Z10000"

// Worksheet is the remote tabular store at its interface boundary.
type Worksheet interface {
	ReadAll(ctx context.Context) (table.Raw, error)
	AppendRow(ctx context.Context, values []string) error
	UpdateRow(ctx context.Context, sheetRow int, values []string) error
}

type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// NewClient builds a values-API client. Construction fails when no credential
// is configured; callers treat every operation as unavailable in that case.
func NewClient(baseURL, token string) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("sheet: missing access token")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpc:   &http.Client{Timeout: 8 * time.Second},
	}, nil
}

// Open binds the client to one spreadsheet. A missing or unshared sheet
// reports ErrNotFound.
func (c *Client) Open(ctx context.Context, sheetID string) (Worksheet, error) {
	sheetID = strings.TrimSpace(sheetID)
	if sheetID == "" {
		return nil, errors.New("sheet: missing spreadsheet id")
	}
	url := fmt.Sprintf("%s/v4/spreadsheets/%s?fields=spreadsheetId", c.baseURL, sheetID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("sheet: open failed with status %d", resp.StatusCode)
	}
	return &worksheet{c: c, sheetID: sheetID}, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.httpc.Do(req)
}

type worksheet struct {
	c       *Client
	sheetID string
}

type valueGrid struct {
	Values [][]string `json:"values"`
}

// ReadAll returns every data row keyed by the raw header names from row one.
// Short rows are padded with blanks so each row covers every header.
func (ws *worksheet) ReadAll(ctx context.Context) (table.Raw, error) {
	url := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s", ws.c.baseURL, ws.sheetID, readRange)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return table.Raw{}, err
	}
	resp, err := ws.c.do(req)
	if err != nil {
		return table.Raw{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return table.Raw{}, fmt.Errorf("sheet: read failed with status %d", resp.StatusCode)
	}

	var grid valueGrid
	if err := json.NewDecoder(resp.Body).Decode(&grid); err != nil {
		return table.Raw{}, fmt.Errorf("sheet: invalid read response: %w", err)
	}
	if len(grid.Values) < 2 {
		return table.Raw{}, nil
	}

	headers := grid.Values[0]
	rows := make([]map[string]string, 0, len(grid.Values)-1)
	for _, cells := range grid.Values[1:] {
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(cells) {
				row[h] = cells[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return table.Raw{Columns: append([]string(nil), headers...), Rows: rows}, nil
}

func (ws *worksheet) AppendRow(ctx context.Context, values []string) error {
	url := fmt.Sprintf("%s/v4/spreadsheets/%s/values/A1:append?valueInputOption=USER_ENTERED",
		ws.c.baseURL, ws.sheetID)
	return ws.writeValues(ctx, http.MethodPost, url, values)
}

// UpdateRow overwrites one full row. sheetRow is 1-based and includes the
// header row, so data row N lives at sheetRow N+1.
func (ws *worksheet) UpdateRow(ctx context.Context, sheetRow int, values []string) error {
	if sheetRow < 2 {
		return fmt.Errorf("sheet: refusing to update row %d", sheetRow)
	}
	endCol := string(rune('A' + len(values) - 1))
	url := fmt.Sprintf("%s/v4/spreadsheets/%s/values/A%d:%s%d?valueInputOption=USER_ENTERED",
		ws.c.baseURL, ws.sheetID, sheetRow, endCol, sheetRow)
	return ws.writeValues(ctx, http.MethodPut, url, values)
}

func (ws *worksheet) writeValues(ctx context.Context, method, url string, values []string) error {
	body, err := json.Marshal(valueGrid{Values: [][]string{values}})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	resp, err := ws.c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sheet: write failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}
