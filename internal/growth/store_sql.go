package growth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/growthchart/internal/db"
	syncx "github.com/mind-engage/growthchart/internal/sync"
)

// likeEscaper makes a search term match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type SQLStore struct {
	db         *sql.DB
	classifier Classifier
}

// NewSQLStore works on sqlite and postgres handles from db.Open.
func NewSQLStore(dbh *sql.DB, c Classifier) *SQLStore {
	return &SQLStore{db: dbh, classifier: c}
}

func (s *SQLStore) CreateInfant(ctx context.Context, in Infant) (Infant, error) {
	if err := validateInfant(&in); err != nil {
		return Infant{}, err
	}
	in.CreatedAt = time.Now().Unix()
	res, err := s.db.ExecContext(ctx, `INSERT INTO infants (id,name,age,sex,weight,height,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO NOTHING`,
		in.ID, in.Name, in.Age, in.Sex, in.Weight, in.Height, in.CreatedAt)
	if err != nil {
		return Infant{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Infant{}, fmt.Errorf("%w: infant %d", ErrConflict, in.ID)
	}
	return in, nil
}

func (s *SQLStore) GetInfant(ctx context.Context, id int64) (Infant, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,name,age,sex,weight,height,created_at FROM infants WHERE id=$1`, id)
	var inf Infant
	if err := row.Scan(&inf.ID, &inf.Name, &inf.Age, &inf.Sex, &inf.Weight, &inf.Height, &inf.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Infant{}, fmt.Errorf("infant %d: %w", id, ErrNotFound)
		}
		return Infant{}, err
	}
	return inf, nil
}

func (s *SQLStore) ListInfants(ctx context.Context, opts ListOpts) ([]Infant, error) {
	var (
		b    strings.Builder
		args []any
	)
	b.WriteString(`SELECT id,name,age,sex,weight,height,created_at FROM infants`)
	if q := strings.TrimSpace(opts.Q); q != "" {
		args = append(args, "%"+likeEscaper.Replace(strings.ToLower(q))+"%")
		b.WriteString(` WHERE LOWER(name) LIKE $1 ESCAPE '\'`)
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, normLimit(opts.Limit), offset)
	fmt.Fprintf(&b, ` ORDER BY id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Infant{}
	for rows.Next() {
		var inf Infant
		if err := rows.Scan(&inf.ID, &inf.Name, &inf.Age, &inf.Sex, &inf.Weight, &inf.Height, &inf.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, inf)
	}
	return out, rows.Err()
}

// RecordMeasurement writes the measurement and its MeasurementRecorded event
// in one transaction.
func (s *SQLStore) RecordMeasurement(ctx context.Context, infantID int64, in MeasurementInput) (Measurement, error) {
	inf, err := s.GetInfant(ctx, infantID)
	if err != nil {
		return Measurement{}, err
	}
	ms, err := classify(s.classifier, inf, in)
	if err != nil {
		return Measurement{}, err
	}
	ms.ID = uuid.NewString()
	ms.RecordedAt = time.Now().Unix()

	ev, err := syncx.NewEvent(syncx.TypeMeasurementRecorded, ms.ID, ms)
	if err != nil {
		return Measurement{}, err
	}
	err = db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO measurements (id,infant_id,recorded_at,age,weight,height,label,chart,seq)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,(SELECT COALESCE(MAX(seq),0)+1 FROM measurements))`,
			ms.ID, ms.InfantID, ms.RecordedAt, ms.Age, ms.Weight, ms.Height, ms.Label, ms.Chart); err != nil {
			return err
		}
		return syncx.AppendTo(ctx, tx, ev)
	})
	if err != nil {
		return Measurement{}, err
	}
	return ms, nil
}

func (s *SQLStore) GetMeasurement(ctx context.Context, id string) (Measurement, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,infant_id,recorded_at,age,weight,height,label,chart
		FROM measurements WHERE id=$1`, id)
	var ms Measurement
	if err := row.Scan(&ms.ID, &ms.InfantID, &ms.RecordedAt, &ms.Age, &ms.Weight, &ms.Height, &ms.Label, &ms.Chart); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Measurement{}, fmt.Errorf("measurement %s: %w", id, ErrNotFound)
		}
		return Measurement{}, err
	}
	return ms, nil
}

func (s *SQLStore) ListMeasurements(ctx context.Context, infantID int64) ([]Measurement, error) {
	if _, err := s.GetInfant(ctx, infantID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id,infant_id,recorded_at,age,weight,height,label,chart
		FROM measurements WHERE infant_id=$1 ORDER BY seq, id`, infantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Measurement{}
	for rows.Next() {
		var ms Measurement
		if err := rows.Scan(&ms.ID, &ms.InfantID, &ms.RecordedAt, &ms.Age, &ms.Weight, &ms.Height, &ms.Label, &ms.Chart); err != nil {
			return nil, err
		}
		out = append(out, ms)
	}
	return out, rows.Err()
}
