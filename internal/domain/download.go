package domain

import "io"

// Download is an accepted image response whose body has not been consumed
type Download struct {
	URL           string
	Filename      string
	ContentType   string
	ContentLength int64 // -1 when the server did not announce it
	Body          io.ReadCloser
}

// Close releases the response body
func (d *Download) Close() error {
	if d.Body == nil {
		return nil
	}
	return d.Body.Close()
}
