// Package audit appends write-once records of business actions. A failed
// audit write never fails the action that triggered it: errors are logged
// and swallowed here.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Delandiluca/finly/internal/models"
	"github.com/Delandiluca/finly/internal/repository"
	"github.com/Delandiluca/finly/internal/tenant"
)

// Origin carries request metadata recorded alongside each entry
type Origin struct {
	IPAddress string
	UserAgent string
}

type originKey struct{}

// WithOrigin attaches request origin metadata to the context
func WithOrigin(ctx context.Context, origin Origin) context.Context {
	return context.WithValue(ctx, originKey{}, origin)
}

// OriginFromContext returns the request origin, or zero values if unset
func OriginFromContext(ctx context.Context) Origin {
	origin, _ := ctx.Value(originKey{}).(Origin)
	return origin
}

// Recorder writes audit entries through the audit log repository
type Recorder struct {
	logs *repository.AuditLogsRepository
	log  *logrus.Logger
}

// NewRecorder creates a Recorder
func NewRecorder(logs *repository.AuditLogsRepository, log *logrus.Logger) *Recorder {
	return &Recorder{logs: logs, log: log}
}

// Created records an entity creation
func (r *Recorder) Created(ctx context.Context, entityType, entityID string, newValues interface{}) {
	r.record(ctx, "CREATE_"+strings.ToUpper(entityType), entityType, entityID, nil, newValues)
}

// Updated records an entity mutation with before and after snapshots
func (r *Recorder) Updated(ctx context.Context, entityType, entityID string, oldValues, newValues interface{}) {
	r.record(ctx, "UPDATE_"+strings.ToUpper(entityType), entityType, entityID, oldValues, newValues)
}

// Deleted records an entity removal (including soft deletes)
func (r *Recorder) Deleted(ctx context.Context, entityType, entityID string, oldValues interface{}) {
	r.record(ctx, "DELETE_"+strings.ToUpper(entityType), entityType, entityID, oldValues, nil)
}

func (r *Recorder) record(ctx context.Context, action, entityType, entityID string, oldValues, newValues interface{}) {
	entry := &models.AuditLog{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
	}

	if userID, ok := tenant.UserID(ctx); ok {
		entry.UserID = &userID
	}

	origin := OriginFromContext(ctx)
	entry.IPAddress = origin.IPAddress
	entry.UserAgent = origin.UserAgent

	var err error
	if entry.OldValues, err = marshalSnapshot(oldValues); err != nil {
		r.log.WithError(err).WithField("action", action).Error("Audit.Marshal")
		return
	}
	if entry.NewValues, err = marshalSnapshot(newValues); err != nil {
		r.log.WithError(err).WithField("action", action).Error("Audit.Marshal")
		return
	}

	if err := r.logs.Insert(ctx, entry); err != nil {
		r.log.WithError(err).WithFields(logrus.Fields{
			"action":      action,
			"entity_type": entityType,
			"entity_id":   entityID,
		}).Error("Audit.Insert")
	}
}

func marshalSnapshot(v interface{}) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal audit snapshot: %w", err)
	}
	return data, nil
}
