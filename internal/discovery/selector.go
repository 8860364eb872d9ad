package discovery

import (
	"context"

	"github.com/jonesrussell/godiscover/internal/domain"
	"github.com/jonesrussell/godiscover/internal/logger"
)

// MethodSelector decides which discovery methods to attempt for a
// source and in what order, favoring whatever has worked before.
type MethodSelector struct {
	telemetry Telemetry
	logger    logger.Interface
}

// NewMethodSelector creates a selector backed by effectiveness history.
func NewMethodSelector(telemetry Telemetry, log logger.Interface) *MethodSelector {
	return &MethodSelector{
		telemetry: telemetry,
		logger:    log.WithComponent("method_selector"),
	}
}

// Select returns the ordered methods to attempt for the source. A
// source whose no-effective-methods streak has tripped the circuit
// breaker gets an empty list and is not probed at all. Telemetry
// problems degrade to the default enumeration order rather than
// failing the run.
func (s *MethodSelector) Select(ctx context.Context, source *domain.Source) []domain.Method {
	log := s.logger.WithSource(source.ID, source.Name)

	if source.CircuitOpen(CircuitBreakerThreshold) {
		log.Info("Circuit breaker open, skipping discovery",
			"consecutive_failures", source.NoEffectiveMethodsConsecutive)
		return nil
	}

	methods := s.effectiveOrder(ctx, source, log)
	if len(methods) == 0 {
		methods = domain.EnumeratingMethods()
	}

	return s.prioritizeLastSuccessful(source, methods, log)
}

// effectiveOrder translates the telemetry ranking into methods,
// dropping labels that no registered strategy answers to.
func (s *MethodSelector) effectiveOrder(ctx context.Context, source *domain.Source, log logger.Interface) []domain.Method {
	hasData, err := s.telemetry.HasHistoricalData(ctx, source.ID)
	if err != nil {
		log.Warn("Failed to check telemetry history, using default method order", "error", err)
		return nil
	}
	if !hasData {
		return nil
	}

	labels, err := s.telemetry.EffectiveMethods(ctx, source.ID)
	if err != nil {
		log.Warn("Failed to load effective methods, using default method order", "error", err)
		return nil
	}

	methods := make([]domain.Method, 0, len(labels))
	seen := make(map[domain.Method]struct{}, len(labels))
	for _, label := range labels {
		method, parseErr := domain.ParseMethod(label)
		if parseErr != nil {
			log.Warn("Rejecting unknown method label from telemetry", "label", label)
			continue
		}
		if !method.CanEnumerate() {
			log.Debug("Skipping non-enumerating method from telemetry", "method", method.String())
			continue
		}
		if _, dup := seen[method]; dup {
			continue
		}
		seen[method] = struct{}{}
		methods = append(methods, method)
	}

	return methods
}

// prioritizeLastSuccessful moves the most recently successful method
// to the front of the attempt order.
func (s *MethodSelector) prioritizeLastSuccessful(source *domain.Source, methods []domain.Method, log logger.Interface) []domain.Method {
	if source.LastSuccessfulMethod == nil {
		return methods
	}

	last, err := domain.ParseMethod(*source.LastSuccessfulMethod)
	if err != nil {
		log.Warn("Ignoring unknown last successful method", "label", *source.LastSuccessfulMethod)
		return methods
	}
	if !last.CanEnumerate() {
		return methods
	}

	reordered := make([]domain.Method, 0, len(methods)+1)
	reordered = append(reordered, last)
	for _, method := range methods {
		if method != last {
			reordered = append(reordered, method)
		}
	}
	return reordered
}
