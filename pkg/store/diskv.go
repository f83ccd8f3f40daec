package store

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/peterbourgon/diskv/v3"
)

// Action names what was done from this terminal.
type Action string

const (
	ActionSend          Action = "send"
	ActionSendAll       Action = "send-all"
	ActionSkip          Action = "skip"
	ActionCancel        Action = "cancel"
	ActionLink          Action = "link"
	ActionCreateVin     Action = "create-vin"
	ActionCreateRecord  Action = "create-service-record"
	ActionCreateContact Action = "create-contact"
	ActionMarkRead      Action = "mark-read"
)

// Record is one journal line. The backend owns every entity; the journal
// only remembers what this client asked for and how it went.
type Record struct {
	ID      string    `json:"id"`
	At      time.Time `json:"at"`
	Action  Action    `json:"action"`
	Subject string    `json:"subject"`
	OK      bool      `json:"ok"`
	Detail  string    `json:"detail,omitempty"`
}

// Journal is the append-only activity log.
type Journal interface {
	Append(r *Record) error
	List(ctx context.Context) []*Record
	Day(ctx context.Context, day string) []*Record
	Days(ctx context.Context) []string
	Watch(ctx context.Context) (<-chan Event, error)
}

// Load opens the journal under cfg.BasePath().
func Load(cfg Config) (Journal, error) {
	if cfg == nil {
		return nil, errors.New("store: config required")
	}
	basePath, err := expandHome(cfg.BasePath())
	if err != nil {
		return nil, err
	}
	if basePath == "" {
		return nil, errors.New("store: journal path required")
	}
	return &journal{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type journal struct {
	d        *diskv.Diskv
	basePath string
}

func (j *journal) read(key string) (*Record, error) {
	val, err := j.d.Read(key)
	if err != nil {
		return nil, err
	}
	r := &Record{}
	if err := json.Unmarshal(val, r); err != nil {
		return nil, err
	}
	r.ID = keyToPathTransform(key).FileName
	return r, nil
}

func (j *journal) Append(r *Record) error {
	if r.At.IsZero() {
		r.At = time.Now()
	}
	key := toKey(r)
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return j.d.Write(key, data)
}

func (j *journal) List(ctx context.Context) []*Record {
	return j.collect(ctx, func(string) bool { return true })
}

func (j *journal) Day(ctx context.Context, day string) []*Record {
	return j.collect(ctx, func(d string) bool { return d == day })
}

func (j *journal) collect(ctx context.Context, keep func(day string) bool) []*Record {
	all := make([]*Record, 0)
	for key := range j.d.Keys(ctx.Done()) {
		pk := keyToPathTransform(key)
		if len(pk.Path) == 0 || !keep(pk.Path[0]) {
			continue
		}
		r, err := j.read(key)
		if err != nil {
			slog.Warn("journal: skipping unreadable record", "key", key, "err", err)
			continue
		}
		all = append(all, r)
	}
	sortRecords(all)
	return all
}

// Days lists the days that have records, oldest first.
func (j *journal) Days(ctx context.Context) []string {
	seen := make(map[string]struct{})
	for key := range j.d.Keys(ctx.Done()) {
		if pk := keyToPathTransform(key); len(pk.Path) > 0 {
			seen[pk.Path[0]] = struct{}{}
		}
	}
	days := make([]string, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Strings(days)
	return days
}

const layoutISO = "2006-01-02"

func sortRecords(records []*Record) {
	sort.SliceStable(records, func(i, k int) bool {
		left, right := records[i], records[k]
		if left.At.Equal(right.At) {
			return left.ID < right.ID
		}
		return left.At.Before(right.At)
	})
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "_")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s_%s", strings.Join(pathKey.Path, "_"), pathKey.FileName)
}

// toKey makes `day_id`. Days use dashes, so the separator is an underscore.
func toKey(r *Record) string {
	if r.ID == "" {
		b, _ := json.Marshal(r)
		sum := md5.Sum(append(b, []byte(r.At.Format(time.RFC3339Nano))...))
		r.ID = fmt.Sprintf("%d-%x", r.At.UnixNano(), sum[:4])
	}
	return fmt.Sprintf("%s_%s", r.At.Local().Format(layoutISO), r.ID)
}

func expandHome(path string) (string, error) {
	expanded, err := homedir.Expand(strings.TrimSpace(path))
	if err != nil {
		return "", fmt.Errorf("store: resolve home: %w", err)
	}
	return expanded, nil
}
