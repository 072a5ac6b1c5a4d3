package pipekit

import (
	"context"
	stderrs "errors"
	"time"

	perr "quill/internal/platform/errors"
	"quill/internal/platform/logger"

	"github.com/go-playground/validator/v10"
)

// Logging logs each invocation with outcome kind and elapsed time
func Logging[Req, Res any](log logger.Logger, op string) Behavior[Req, Res] {
	return func(next Handler[Req, Res]) Handler[Req, Res] {
		return func(ctx context.Context, req Req) (Res, error) {
			start := time.Now()
			res, err := next(ctx, req)
			ev := log.Debug()
			if err != nil && KindOf(err) == OutcomeUnexpected {
				ev = log.Error().Err(err)
			} else if err != nil {
				ev = log.Info().Err(err)
			}
			ev.Str("op", op).
				Str("outcome", KindOf(err).String()).
				Dur("elapsed", time.Since(start)).
				Msg("pipeline")
			return res, err
		}
	}
}

// Validate struct-validates the request before the operation runs.
// Violations surface as a Validation error carrying the first offending field
func Validate[Req, Res any](v *validator.Validate) Behavior[Req, Res] {
	return func(next Handler[Req, Res]) Handler[Req, Res] {
		return func(ctx context.Context, req Req) (Res, error) {
			if err := v.StructCtx(ctx, req); err != nil {
				var zero Res
				var verrs validator.ValidationErrors
				if stderrs.As(err, &verrs) && len(verrs) > 0 {
					f := verrs[0]
					return zero, perr.NewValidation(f.Field(), "failed on rule "+f.Tag())
				}
				return zero, perr.Wrap(err, perr.ErrorCodeValidation, "invalid request")
			}
			return next(ctx, req)
		}
	}
}

// Recover converts a panicking operation into a Panic-coded error
func Recover[Req, Res any](log logger.Logger, op string) Behavior[Req, Res] {
	return func(next Handler[Req, Res]) Handler[Req, Res] {
		return func(ctx context.Context, req Req) (res Res, err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error().Str("op", op).Any("panic", r).Msg("pipeline panic")
					err = perr.PanicErrf("%s panicked: %v", op, r)
				}
			}()
			return next(ctx, req)
		}
	}
}
