package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/matsen/citations/internal/citation"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// ReadAll reads citation aggregates from a JSONL file.
func ReadAll(path string) ([]citation.Citation, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening citations file: %w", err)
	}
	defer f.Close()

	var cits []citation.Citation
	scanner := bufio.NewScanner(f)
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var c citation.Citation
		if err := json.Unmarshal(line, &c); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		cits = append(cits, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading citations file: %w", err)
	}
	return cits, nil
}

// WriteAll writes citation aggregates to a JSONL file, replacing existing content.
func WriteAll(path string, cits []citation.Citation) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating citations file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i := range cits {
		data, err := json.Marshal(&cits[i])
		if err != nil {
			return fmt.Errorf("encoding citation %d: %w", i, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("writing citation %d: %w", i, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing citations file: %w", err)
	}
	return nil
}

// Dump writes every stored citation to path and returns how many were written.
func (d *DB) Dump(ctx context.Context, path string) (int, error) {
	cits, err := d.List(ctx, citation.ListFilter{})
	if err != nil {
		return 0, err
	}
	if err := WriteAll(path, cits); err != nil {
		return 0, err
	}
	return len(cits), nil
}

// Restore re-creates the citations in a JSONL dump inside one transaction:
// either every citation is restored or none is. The individuals a citation
// references are saved first and non-author roles are re-applied afterwards.
// Citations receive fresh IDs, returned in file order.
func (d *DB) Restore(ctx context.Context, path string) ([]string, error) {
	cits, err := ReadAll(path)
	if err != nil {
		return nil, err
	}

	payloads := make([]citation.CreatePayload, len(cits))
	kinds := make([]citation.Kind, len(cits))
	for i := range cits {
		payloads[i] = cits[i].CreatePayload()
		if kinds[i], err = payloads[i].Validate(); err != nil {
			return nil, fmt.Errorf("citation %s: %w", cits[i].ID, err)
		}
	}

	ids := make([]string, 0, len(cits))
	err = d.inTx(ctx, "restore", func(c *conn) error {
		for i := range cits {
			for _, m := range cits[i].Members {
				if err := c.saveIndividual(ctx, m.Individual); err != nil {
					return fmt.Errorf("citation %s: %w", cits[i].ID, err)
				}
			}
			id, err := c.create(ctx, kinds[i], payloads[i])
			if err != nil {
				return fmt.Errorf("citation %s: %w", cits[i].ID, err)
			}
			for _, m := range payloads[i].Members {
				if m.Role == "" || m.Role == citation.RoleAuthor {
					continue
				}
				if err := c.addMember(ctx, id, m); err != nil {
					return fmt.Errorf("citation %s: %w", cits[i].ID, err)
				}
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	d.log.Info("citations restored", "path", path, "count", len(ids))
	return ids, nil
}
