package kb

import (
	"go.uber.org/zap"

	"github.com/roach88/reachkb/internal/ir"
)

// ZapSink logs diagnostics through logger. Warnings log at warn level,
// everything else at info.
func ZapSink(logger *zap.Logger) ir.DiagnosticSink {
	return ir.DiagnosticFunc(func(d ir.Diagnostic) {
		fields := []zap.Field{
			zap.String("code", d.Code),
			zap.String("source", d.Source),
		}
		if d.Severity == ir.SeverityWarning {
			logger.Warn(d.Message, fields...)
			return
		}
		logger.Info(d.Message, fields...)
	})
}
