package riskrange

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"

	"github.com/etnz/riskrange/date"
)

// http helpers shared by the quote providers.

// responseCache is a disk cache for HTTP responses keyed per calendar day, so
// repeated runs on the same day do not hammer the providers.
type responseCache struct {
	base http.RoundTripper
}

func (c *responseCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	// the key includes today's date, so the local tmp entry expires daily.
	key := fmt.Sprintf("rr %s %s %s", date.Today(), req.Method, req.URL.String())
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	cached, err := c.get(key, req)
	if err == nil { // cache hit
		return cached, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v/%v %v", resp.Request.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}

	if err := c.put(key, resp); err != nil {
		log.Printf("response cache write err (ignored): %v", err)
	}
	return resp, nil
}

func (c *responseCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(os.TempDir(), key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

func (c *responseCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(os.TempDir(), key))
	if err != nil {
		return err
	}
	_, err = f.Write(content)
	f.Close()
	return err
}

// dailyClient returns an http client whose responses expire daily.
func dailyClient() *http.Client {
	return &http.Client{Transport: &responseCache{http.DefaultTransport}}
}

// jwget performs an HTTP GET request and unmarshals the JSON response into
// the provided data structure.
func jwget(client *http.Client, addr string, data any) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	_, err = io.Copy(&buf, resp.Body)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return json.Unmarshal(buf.Bytes(), data)
}
