// Package dailymed retrieves the DailyMed human prescription label release
// and unpacks it into a flat directory of SPL XML files.
package dailymed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

// ReleaseURL is the published full release of human prescription labels.
const ReleaseURL = "https://dailymed-data.nlm.nih.gov/public-release-files/dm_spl_release_human_rx.zip"

const progressEvery = 10 << 20

// DownloadOptions controls Download. The zero value downloads once with no
// retries.
type DownloadOptions struct {
	// Attempts is the total number of tries for transient failures.
	Attempts int
	// Backoff is the wait before the second attempt; it doubles each retry.
	Backoff time.Duration
	// Reuse skips the download when dest already exists.
	Reuse  bool
	Client *http.Client
}

// StatusError is a non-200 HTTP response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d", e.URL, e.StatusCode)
}

// Temporary reports whether a retry may succeed.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Download streams url into dest and returns the number of bytes written.
// The body is written to dest+".part" and renamed on success, so a failed
// download never leaves a truncated dest behind.
func Download(ctx context.Context, url, dest string, opts DownloadOptions) (int64, error) {
	if opts.Reuse {
		if fi, err := os.Stat(dest); err == nil && fi.Size() > 0 {
			log.Printf("Using existing %s (%.1f MB)", dest, float64(fi.Size())/1024/1024)
			return fi.Size(), nil
		}
	}
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}
	attempts := max(opts.Attempts, 1)

	backoff := opts.Backoff
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		n, err := fetch(ctx, client, url, dest)
		if err == nil {
			return n, nil
		}
		lastErr = err
		if !retryable(err) || attempt == attempts {
			break
		}
		log.Printf("Download attempt %d/%d failed: %v (retrying in %s)", attempt, attempts, err, backoff)
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return 0, fmt.Errorf("download %s: %w", url, lastErr)
}

func fetch(ctx context.Context, client *http.Client, url, dest string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return 0, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	part := dest + ".part"
	f, err := os.Create(part)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", part, err)
	}

	n, err := io.Copy(f, &progressReader{r: resp.Body, total: resp.ContentLength, next: progressEvery})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(part)
		return 0, err
	}
	if err := os.Rename(part, dest); err != nil {
		os.Remove(part)
		return 0, fmt.Errorf("rename %s: %w", part, err)
	}
	log.Printf("Downloaded %s (%.1f MB)", dest, float64(n)/1024/1024)
	return n, nil
}

// retryable reports whether err is worth another attempt. Cancellation and
// local file errors are not.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	var pe *os.PathError
	return !errors.As(err, &pe)
}

type progressReader struct {
	r     io.Reader
	read  int64
	total int64
	next  int64
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	if p.read >= p.next {
		if p.total > 0 {
			log.Printf("  progress: %.1f / %.1f MB (%.0f%%)",
				float64(p.read)/1024/1024, float64(p.total)/1024/1024, float64(p.read)*100/float64(p.total))
		} else {
			log.Printf("  progress: %.1f MB", float64(p.read)/1024/1024)
		}
		p.next += progressEvery
	}
	return n, err
}
