// internal/activities/service.go
package activities

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"mergington-activities/internal/audit"
	apperrors "mergington-activities/internal/common/errors"
	"mergington-activities/internal/common/logger"
	"mergington-activities/internal/common/metrics"
	"mergington-activities/internal/common/observability"
	"mergington-activities/internal/models"
)

const (
	OperationSignup     = "signup"
	OperationUnregister = "unregister"
)

const defaultAuditTimeout = 2 * time.Second

// ServiceDependencies are the collaborators of a Service. Audit and
// Observability may be nil. AuditTimeout caps the time a roster change
// waits on the audit trail; zero means two seconds.
type ServiceDependencies struct {
	Directory     *Directory
	Audit         audit.Sink
	AuditTimeout  time.Duration
	Observability *observability.Observability
	Logger        logger.Logger
}

// Service runs roster operations against a Directory and reports them to
// metrics, traces and the audit trail.
type Service struct {
	dir          *Directory
	audit        audit.Sink
	auditTimeout time.Duration
	obs          *observability.Observability
	logger       logger.Logger
}

func NewService(deps ServiceDependencies) *Service {
	sink := deps.Audit
	if sink == nil {
		sink = audit.NopSink{}
	}
	obs := deps.Observability
	if obs == nil {
		obs = &observability.Observability{}
	}
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	auditTimeout := deps.AuditTimeout
	if auditTimeout <= 0 {
		auditTimeout = defaultAuditTimeout
	}

	s := &Service{
		dir:          deps.Directory,
		audit:        sink,
		auditTimeout: auditTimeout,
		obs:          obs,
		logger:       log.WithFields(map[string]interface{}{"component": "activities"}),
	}
	for name, a := range s.dir.List() {
		metrics.ActivityParticipants.WithLabelValues(name).Set(float64(len(a.Participants)))
	}
	return s
}

// List returns a snapshot of every activity.
func (s *Service) List(ctx context.Context) models.Directory {
	_, span := s.obs.StartSpan(ctx, "activities.list")
	defer span.End()

	return s.dir.List()
}

// SignUp registers email for the named activity.
func (s *Service) SignUp(ctx context.Context, activity, email string) (*models.MessageResponse, error) {
	err := s.run(ctx, OperationSignup, activity, email, s.dir.SignUp)
	if err != nil {
		return nil, err
	}
	return &models.MessageResponse{
		Message: fmt.Sprintf("Signed up %s for %s", email, activity),
	}, nil
}

// Unregister removes email from the named activity.
func (s *Service) Unregister(ctx context.Context, activity, email string) (*models.MessageResponse, error) {
	err := s.run(ctx, OperationUnregister, activity, email, s.dir.Unregister)
	if err != nil {
		return nil, err
	}
	return &models.MessageResponse{
		Message: fmt.Sprintf("Unregistered %s from %s", email, activity),
	}, nil
}

func (s *Service) run(ctx context.Context, op, activity, email string, apply func(string, string) (int, error)) error {
	ctx, span := s.obs.StartSpan(ctx, "activities."+op,
		attribute.String("activity.name", activity),
	)
	defer span.End()

	start := time.Now()
	size, err := apply(activity, email)
	s.obs.RecordOperationDuration(ctx, op, time.Since(start))

	if err != nil {
		code := apperrors.CodeOf(err)
		metrics.ActivityOperationFailures.WithLabelValues(op, string(code)).Inc()
		s.obs.RecordOperation(ctx, op, string(code))
		span.SetStatus(codes.Error, string(code))
		s.logger.Info("roster operation rejected", map[string]interface{}{
			"operation": op,
			"activity":  activity,
			"email":     email,
			"errorCode": string(code),
		})
		return err
	}

	s.obs.RecordOperation(ctx, op, "success")

	// Inc/Dec commute, so concurrent changes to one roster cannot leave the
	// gauge at a stale size.
	eventType := audit.EventSignup
	if op == OperationSignup {
		metrics.ActivitySignups.WithLabelValues(activity).Inc()
		metrics.ActivityParticipants.WithLabelValues(activity).Inc()
	} else {
		eventType = audit.EventUnregister
		metrics.ActivityUnregistrations.WithLabelValues(activity).Inc()
		metrics.ActivityParticipants.WithLabelValues(activity).Dec()
	}

	s.logger.Info("roster updated", map[string]interface{}{
		"operation":    op,
		"activity":     activity,
		"email":        email,
		"participants": size,
	})

	s.recordAudit(ctx, op, audit.NewEvent(eventType, activity, email))
	return nil
}

// recordAudit writes event to the audit trail within auditTimeout. The
// roster change already happened, so a slow or failing backend is logged
// and never surfaced to the caller.
func (s *Service) recordAudit(ctx context.Context, op string, event audit.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.auditTimeout)
	defer cancel()

	if err := s.audit.Record(ctx, event); err != nil {
		s.logger.Warn("audit record failed", map[string]interface{}{
			"operation": op,
			"activity":  event.Activity,
			"error":     err,
		})
	}
}
