// Package audit appends AuditLog entries into an already-open
// transaction. It never commits; the caller's transaction boundary
// owns that.
package audit

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/amr-platform/annotation-core/pkg/domain"
	"github.com/amr-platform/annotation-core/pkg/repository"
)

// Entry describes one audit event before normalization.
type Entry struct {
	ActorID      int64
	ActorRole    domain.Role
	Action       string
	EntityType   string
	EntityID     int64
	BeforeStatus *domain.SentenceStatus
	AfterStatus  *domain.SentenceStatus
	ProjectID    int64
	Metadata     map[string]interface{}
}

// Writer records audit entries via a repository.AuditLogRepo.
type Writer struct {
	repo repository.AuditLogRepo
}

// NewWriter constructs a Writer.
func NewWriter(repo repository.AuditLogRepo) *Writer {
	return &Writer{repo: repo}
}

// Record normalizes Entry's metadata and appends it as an AuditLog row
// within tx. It does not commit.
func (w *Writer) Record(ctx context.Context, tx *sqlx.Tx, e Entry) error {
	log := &domain.AuditLog{
		ActorID:    e.ActorID,
		ActorRole:  e.ActorRole,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		ProjectID:  e.ProjectID,
		Metadata:   normalizeMetadata(e.Metadata),
	}
	if e.BeforeStatus != nil {
		s := string(*e.BeforeStatus)
		log.BeforeStatus = &s
	}
	if e.AfterStatus != nil {
		s := string(*e.AfterStatus)
		log.AfterStatus = &s
	}
	return w.repo.Create(ctx, tx, log)
}

// normalizeMetadata walks Metadata recursively: enums become their
// string value, timestamps become RFC3339, nested lists/mappings are
// walked, and everything else is stringified.
func normalizeMetadata(metadata map[string]interface{}) map[string]interface{} {
	if metadata == nil {
		return nil
	}
	out := make(map[string]interface{}, len(metadata))
	for k, v := range metadata {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return nil
	case time.Time:
		return val.Format(time.RFC3339)
	case *time.Time:
		if val == nil {
			return nil
		}
		return val.Format(time.RFC3339)
	case map[string]interface{}:
		return normalizeMetadata(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]interface{}, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = normalizeValue(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		out := make(map[string]interface{}, rv.Len())
		for _, key := range rv.MapKeys() {
			out[fmt.Sprint(key.Interface())] = normalizeValue(rv.MapIndex(key).Interface())
		}
		return out
	case reflect.String:
		return rv.String()
	case reflect.Ptr:
		if rv.IsNil() {
			return nil
		}
		return normalizeValue(rv.Elem().Interface())
	default:
		return fmt.Sprintf("%v", v)
	}
}
