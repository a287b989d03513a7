package store

import (
	"crypto/rand"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

type randReader struct{}

func (randReader) Read(p []byte) (int, error) { return rand.Read(p) }

var timeNow = func() time.Time { return time.Now().UTC() }

// ExportNDJSON writes the collection, one JSON line per record in
// collection order, to a ULID-named snapshot file under dir. It returns
// the path of the written file.
func ExportNDJSON(dir string, rs *Records) (string, error) {
	var b strings.Builder
	for _, r := range rs.records {
		line, err := r.Write()
		if err != nil {
			return "", err
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	path := filepath.Join(dir, fmt.Sprintf("todos-%s.ndjson", newULID()))
	if err := atomicWriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func newULID() string {
	t := ulid.Timestamp(timeNow())
	entropy := ulid.Monotonic(randReader{}, 0)
	id, err := ulid.New(t, entropy)
	if err != nil {
		// fallback
		return fmt.Sprintf("%d", timeNow().UnixNano())
	}
	return strings.ToUpper(id.String())
}
