package logging

import "github.com/graphicode-dev/classroom/internal/param"

// NewSink reports serializer warnings through l.
func NewSink(l Logger) param.Sink {
	return param.SinkFunc(func(w param.Warning) {
		l.Warn(Serialization, Skipped, w.Detail, map[ExtraKey]any{
			ParamKey:    w.Key,
			WarningKind: w.Kind.String(),
		})
	})
}
