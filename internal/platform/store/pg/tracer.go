package pg

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type traceKey struct{}

type traceStart struct {
	sql  string
	args int
	at   time.Time
}

// Tracer logs statements through zerolog
// it implements pgx.QueryTracer
type Tracer struct {
	log  zerolog.Logger
	all  bool
	slow time.Duration
	now  func() time.Time
}

var _ pgx.QueryTracer = (*Tracer)(nil)

// NewTracer returns a tracer that logs every statement when all is set
// and slow statements regardless
func NewTracer(log zerolog.Logger, all bool, slow time.Duration) *Tracer {
	return &Tracer{
		log:  log.With().Str("component", "pg").Logger(),
		all:  all,
		slow: slow,
		now:  time.Now,
	}
}

func (t *Tracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, d pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, traceKey{}, traceStart{sql: d.SQL, args: len(d.Args), at: t.now()})
}

func (t *Tracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, d pgx.TraceQueryEndData) {
	st, ok := ctx.Value(traceKey{}).(traceStart)
	if !ok {
		return
	}
	elapsed := t.now().Sub(st.at)
	slow := t.slow > 0 && elapsed >= t.slow

	var ev *zerolog.Event
	switch {
	case slow:
		ev = t.log.Warn()
	case t.all:
		ev = t.log.Debug()
	default:
		return
	}
	ev.Dur("elapsed", elapsed).
		Bool("slow", slow).
		Str("sql", compact(st.sql)).
		Int("args", st.args).
		Int64("rows", d.CommandTag.RowsAffected()).
		Err(d.Err).
		Msg("pg query")
}

// compact folds runs of whitespace so multi line statements log on one line
func compact(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
