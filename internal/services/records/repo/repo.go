// Package repo provides postgres access for detections, verifications and their audit history
package repo

import (
	"context"
	_ "embed"

	"pestwatch/internal/core/cursor"
	"pestwatch/internal/modkit/repokit"
	perr "pestwatch/internal/platform/errors"
	"pestwatch/internal/platform/store"
	"pestwatch/internal/services/records/domain"
)

//go:embed schema.sql
var schemaSQL string

// Migrate applies the records schema
func Migrate(ctx context.Context, q repokit.Queryer) error {
	if _, err := q.Exec(ctx, schemaSQL); err != nil {
		return perr.FromPostgres(err, "apply records schema")
	}
	return nil
}

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements domain.Repo
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[domain.Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) domain.Repo { return &queries{q: q} }

// Store is the postgres domain.Store
type Store struct {
	domain.Repo
	db     repokit.TxRunner
	binder repokit.Binder[domain.Repo]
}

var _ domain.Store = (*Store)(nil)

// NewStore binds the repo to db and runs Atomic units in db transactions
func NewStore(db repokit.TxRunner) *Store {
	if db == nil {
		panic("records.Store requires a non nil TxRunner")
	}
	b := NewPG()
	return &Store{Repo: b.Bind(db), db: db, binder: b}
}

// DB returns the runner the store reads and writes through
func (s *Store) DB() repokit.TxRunner { return s.db }

// atomicReplay bounds replays of a transaction aborted by contention
var atomicReplay = repokit.Replay{Attempts: 3, Retryable: perr.IsRetryable}

// Atomic runs fn inside one transaction
// serialization failures and deadlocks replay fn from the start
func (s *Store) Atomic(ctx context.Context, fn func(r domain.Repo) error) error {
	return repokit.InTx(ctx, s.db, s.binder, atomicReplay, fn)
}

const detectionCols = `id, confidence, cur_veri_status, image_urls, species, location, user_id, created_at`

func scanDetection(r store.Row) (domain.Detection, error) {
	var (
		d  domain.Detection
		st string
	)
	if err := r.Scan(&d.ID, &d.Confidence, &st, &d.ImageURLs, &d.Species, &d.Location, &d.UserID, &d.CreatedAt); err != nil {
		return d, err
	}
	d.CurVeriStatus = domain.Status(st)
	return d, nil
}

func (r *queries) InsertDetection(ctx context.Context, d domain.Detection) error {
	const sql = `
insert into detections (` + detectionCols + `)
values ($1, $2, $3, coalesce($4, '{}'::text[]), $5, $6, $7, $8)
`
	_, err := r.q.Exec(ctx, sql,
		d.ID, d.Confidence, string(d.CurVeriStatus), d.ImageURLs, d.Species, d.Location, d.UserID, d.CreatedAt)
	if err != nil {
		return perr.FromPostgresf(err, "insert detection %q", d.ID)
	}
	return nil
}

func (r *queries) GetDetection(ctx context.Context, id string) (domain.Detection, error) {
	const sql = `select ` + detectionCols + ` from detections where id = $1`
	d, err := store.One(ctx, r.q, scanDetection, sql, id)
	if err != nil {
		return d, lookupErr(err, "detection", id)
	}
	return d, nil
}

func (r *queries) SetDetectionStatus(ctx context.Context, id string, s domain.Status) error {
	err := store.ExecOne(ctx, r.q, `update detections set cur_veri_status = $2 where id = $1`, id, string(s))
	switch {
	case err == nil:
		return nil
	case perr.IsNotFound(err):
		return perr.NotFoundf("detection %q not found", id)
	default:
		return perr.FromPostgresf(err, "set detection %q status", id)
	}
}

func (r *queries) ListDetections(ctx context.Context) ([]domain.Detection, error) {
	const sql = `select ` + detectionCols + ` from detections order by created_at desc, id desc`
	out, err := store.Many(ctx, r.q, scanDetection, sql)
	if err != nil {
		return nil, perr.FromPostgres(err, "list detections")
	}
	return nonNil(out), nil
}

func (r *queries) PageDetections(ctx context.Context, limit int, after string) (cursor.Page[domain.Detection], error) {
	if err := cursor.ValidateLimit(limit); err != nil {
		return cursor.Page[domain.Detection]{}, err
	}
	var (
		out []domain.Detection
		err error
	)
	if after == "" {
		const sql = `select ` + detectionCols + ` from detections order by created_at desc, id desc limit $1`
		out, err = store.Many(ctx, r.q, scanDetection, sql, limit+1)
	} else {
		const sql = `
select ` + detectionCols + ` from detections
where (created_at, id) < (select created_at, id from detections where id = $2)
order by created_at desc, id desc
limit $1
`
		if err = r.anchorExists(ctx, "detections", after); err != nil {
			return cursor.Page[domain.Detection]{}, err
		}
		out, err = store.Many(ctx, r.q, scanDetection, sql, limit+1, after)
	}
	if err != nil {
		return cursor.Page[domain.Detection]{}, perr.FromPostgres(err, "page detections")
	}
	return cursor.Finish(out, limit, func(d domain.Detection) string { return d.ID }), nil
}

const verificationCols = `id, pred_id, status, verifier_id, confidence, notes, category, corrected_species,
can_reuse_data, needs_expert_review, image_urls, ts, created_at`

func scanVerification(r store.Row) (domain.Verification, error) {
	var (
		v       domain.Verification
		st, cat string
	)
	err := r.Scan(&v.ID, &v.PredID, &st, &v.VerifierID, &v.Confidence, &v.Notes, &cat, &v.CorrectedSpecies,
		&v.CanReuseData, &v.NeedsExpertReview, &v.ImageURLs, &v.Timestamp, &v.CreatedAt)
	if err != nil {
		return v, err
	}
	v.Status = domain.Status(st)
	v.Category = domain.Category(cat)
	return v, nil
}

func (r *queries) InsertVerification(ctx context.Context, v domain.Verification) error {
	const sql = `
insert into verifications (` + verificationCols + `)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, coalesce($11, '{}'::text[]), $12, $13)
`
	_, err := r.q.Exec(ctx, sql,
		v.ID, v.PredID, string(v.Status), v.VerifierID, v.Confidence, v.Notes, string(v.Category), v.CorrectedSpecies,
		v.CanReuseData, v.NeedsExpertReview, v.ImageURLs, v.Timestamp, v.CreatedAt)
	switch {
	case err == nil:
		return nil
	case perr.IsForeignKeyViolation(err):
		return perr.Wrapf(err, perr.ErrorCodeNotFound, "detection %q not found", v.PredID)
	case perr.IsDuplicateKey(err) && constraintIs(err, "verifications_pred_id_key"):
		return perr.Wrapf(err, perr.ErrorCodeConflict, "detection %q already has a verification", v.PredID)
	default:
		return perr.FromPostgresf(err, "insert verification for %q", v.PredID)
	}
}

func (r *queries) GetVerification(ctx context.Context, id string) (domain.Verification, error) {
	const sql = `select ` + verificationCols + ` from verifications where id = $1`
	v, err := store.One(ctx, r.q, scanVerification, sql, id)
	if err != nil {
		return v, lookupErr(err, "verification", id)
	}
	return v, nil
}

func (r *queries) GetVerificationByPred(ctx context.Context, predID string) (domain.Verification, error) {
	const sql = `select ` + verificationCols + ` from verifications where pred_id = $1`
	v, err := store.One(ctx, r.q, scanVerification, sql, predID)
	if err != nil {
		return v, lookupErr(err, "verification for detection", predID)
	}
	return v, nil
}

func (r *queries) UpdateVerification(ctx context.Context, v domain.Verification) error {
	const sql = `
update verifications set
	status = $2, verifier_id = $3, confidence = $4, notes = $5, category = $6, corrected_species = $7,
	can_reuse_data = $8, needs_expert_review = $9, image_urls = coalesce($10, '{}'::text[]), ts = $11
where id = $1
`
	err := store.ExecOne(ctx, r.q, sql,
		v.ID, string(v.Status), v.VerifierID, v.Confidence, v.Notes, string(v.Category), v.CorrectedSpecies,
		v.CanReuseData, v.NeedsExpertReview, v.ImageURLs, v.Timestamp)
	switch {
	case err == nil:
		return nil
	case perr.IsNotFound(err):
		return perr.NotFoundf("verification %q not found", v.ID)
	default:
		return perr.FromPostgresf(err, "update verification %q", v.ID)
	}
}

func (r *queries) VerificationsByStatus(ctx context.Context, s domain.Status) ([]domain.Verification, error) {
	const sql = `select ` + verificationCols + ` from verifications where status = $1 order by ts desc, id desc`
	out, err := store.Many(ctx, r.q, scanVerification, sql, string(s))
	if err != nil {
		return nil, perr.FromPostgresf(err, "verifications by status %q", s)
	}
	return nonNil(out), nil
}

func (r *queries) ListVerifications(ctx context.Context) ([]domain.Verification, error) {
	const sql = `select ` + verificationCols + ` from verifications order by ts desc, id desc`
	out, err := store.Many(ctx, r.q, scanVerification, sql)
	if err != nil {
		return nil, perr.FromPostgres(err, "list verifications")
	}
	return nonNil(out), nil
}

func (r *queries) PageVerifications(ctx context.Context, limit int, after string) (cursor.Page[domain.Verification], error) {
	if err := cursor.ValidateLimit(limit); err != nil {
		return cursor.Page[domain.Verification]{}, err
	}
	var (
		out []domain.Verification
		err error
	)
	if after == "" {
		const sql = `select ` + verificationCols + ` from verifications order by ts desc, id desc limit $1`
		out, err = store.Many(ctx, r.q, scanVerification, sql, limit+1)
	} else {
		const sql = `
select ` + verificationCols + ` from verifications
where (ts, id) < (select ts, id from verifications where id = $2)
order by ts desc, id desc
limit $1
`
		if err = r.anchorExists(ctx, "verifications", after); err != nil {
			return cursor.Page[domain.Verification]{}, err
		}
		out, err = store.Many(ctx, r.q, scanVerification, sql, limit+1, after)
	}
	if err != nil {
		return cursor.Page[domain.Verification]{}, perr.FromPostgres(err, "page verifications")
	}
	return cursor.Finish(out, limit, func(v domain.Verification) string { return v.ID }), nil
}

const historyCols = `id, verification_id, pred_id, previous_status, new_status, changed_by, changed_at, reason`

func scanHistory(r store.Row) (domain.HistoryEntry, error) {
	var (
		h          domain.HistoryEntry
		prev, next string
	)
	if err := r.Scan(&h.ID, &h.VerificationID, &h.PredID, &prev, &next, &h.ChangedBy, &h.ChangedAt, &h.Reason); err != nil {
		return h, err
	}
	h.PreviousStatus = domain.Status(prev)
	h.NewStatus = domain.Status(next)
	return h, nil
}

func (r *queries) AppendHistory(ctx context.Context, h domain.HistoryEntry) error {
	const sql = `insert into verification_history (` + historyCols + `) values ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, sql,
		h.ID, h.VerificationID, h.PredID, string(h.PreviousStatus), string(h.NewStatus), h.ChangedBy, h.ChangedAt, h.Reason)
	if err != nil {
		if perr.IsForeignKeyViolation(err) {
			return perr.Wrapf(err, perr.ErrorCodeNotFound, "verification %q not found", h.VerificationID)
		}
		return perr.FromPostgresf(err, "append history for %q", h.PredID)
	}
	return nil
}

func (r *queries) HistoryByPred(ctx context.Context, predID string) ([]domain.HistoryEntry, error) {
	const sql = `select ` + historyCols + ` from verification_history where pred_id = $1 order by changed_at asc, seq asc`
	out, err := store.Many(ctx, r.q, scanHistory, sql, predID)
	if err != nil {
		return nil, perr.FromPostgresf(err, "history for %q", predID)
	}
	return nonNil(out), nil
}

func (r *queries) PageHistory(ctx context.Context, predID string, limit int, after string) (cursor.Page[domain.HistoryEntry], error) {
	if err := cursor.ValidateLimit(limit); err != nil {
		return cursor.Page[domain.HistoryEntry]{}, err
	}
	var (
		out []domain.HistoryEntry
		err error
	)
	if after == "" {
		const sql = `
select ` + historyCols + ` from verification_history
where ($2 = '' or pred_id = $2)
order by changed_at desc, id desc
limit $1
`
		out, err = store.Many(ctx, r.q, scanHistory, sql, limit+1, predID)
	} else {
		const sql = `
select ` + historyCols + ` from verification_history
where ($2 = '' or pred_id = $2)
and (changed_at, id) < (select changed_at, id from verification_history where id = $3)
order by changed_at desc, id desc
limit $1
`
		anchor, aerr := store.Scalar[string](ctx, r.q,
			`select coalesce((select pred_id from verification_history where id = $1), '')`, after)
		if aerr != nil {
			return cursor.Page[domain.HistoryEntry]{}, perr.FromPostgresf(aerr, "resolve cursor %q", after)
		}
		if anchor == "" || (predID != "" && anchor != predID) {
			return cursor.Page[domain.HistoryEntry]{}, cursor.UnknownCursor(after)
		}
		out, err = store.Many(ctx, r.q, scanHistory, sql, limit+1, predID, after)
	}
	if err != nil {
		return cursor.Page[domain.HistoryEntry]{}, perr.FromPostgres(err, "page history")
	}
	return cursor.Finish(out, limit, func(h domain.HistoryEntry) string { return h.ID }), nil
}

// anchorExists rejects cursors that do not name a row of table
func (r *queries) anchorExists(ctx context.Context, table, id string) error {
	ok, err := store.Scalar[bool](ctx, r.q, `select exists (select 1 from `+table+` where id = $1)`, id)
	if err != nil {
		return perr.FromPostgresf(err, "resolve cursor %q", id)
	}
	if !ok {
		return cursor.UnknownCursor(id)
	}
	return nil
}

func lookupErr(err error, what, id string) error {
	if perr.IsNotFound(err) {
		return perr.NotFoundf("%s %q not found", what, id)
	}
	return perr.FromPostgresf(err, "get %s %q", what, id)
}

func constraintIs(err error, name string) bool {
	pgErr, ok := perr.AsPgError(err)
	return ok && pgErr.ConstraintName == name
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
