package iex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/etnz/papertrade"
	log "github.com/sirupsen/logrus"
)

// jwget performs an HTTP GET request and decodes the JSON response into
// 'data', with numbers kept as json.Number.
//
// A 404 is reported as papertrade.ErrSymbolNotFound.
func jwget(ctx context.Context, client *http.Client, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	log.WithFields(log.Fields{"host": req.URL.Host, "path": req.URL.Path, "status": resp.Status}).Debugln("http GET")

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return papertrade.ErrSymbolNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("cannot http GET %v%v: %v", req.URL.Host, req.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return err
	}
	dec := json.NewDecoder(&buf)
	dec.UseNumber()
	return dec.Decode(data)
}
