package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sectoolkit/pkg/domain"
	"time"

	"github.com/google/uuid"
)

type PgReport struct {
	ID     uuid.UUID `db:"id"      goqu:"skipinsert"`
	UserID uuid.UUID `db:"user_id"`

	Kind   string          `db:"kind"`
	Target string          `db:"target"`
	Params json.RawMessage `db:"params"`
	Status string          `db:"status"`
	Result json.RawMessage `db:"result"`

	Attempts  uint           `db:"attempts"   goqu:"skipinsert"`
	LastError sql.NullString `db:"last_error" goqu:"skipinsert"`

	CreatedAt time.Time    `db:"created_at" goqu:"skipinsert"`
	UpdatedAt sql.NullTime `db:"updated_at" goqu:"skipinsert"`
	DeletedAt sql.NullTime `db:"deleted_at" goqu:"skipinsert"`
}

func (p *PgReport) ToDomain() (*domain.Report, error) {
	var params domain.ReportParams
	if err := json.Unmarshal(p.Params, &params); err != nil {
		return nil, fmt.Errorf("could not unmarshal report params: %w", err)
	}

	var result domain.ReportResult
	if err := json.Unmarshal(p.Result, &result); err != nil {
		return nil, fmt.Errorf("could not unmarshal report result: %w", err)
	}

	return &domain.Report{
		ID:        domain.ReportID(p.ID),
		UserID:    domain.UserID(p.UserID),
		Kind:      domain.ReportKind(p.Kind),
		Target:    p.Target,
		Params:    params,
		Status:    domain.ReportStatus(p.Status),
		Result:    result,
		Attempts:  p.Attempts,
		LastError: p.LastError.String,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt.Time,
		DeletedAt: p.DeletedAt.Time,
	}, nil
}

func (p *PgReport) FromDomain(report domain.Report) error {
	params, err := json.Marshal(report.Params)
	if err != nil {
		return fmt.Errorf("could not marshal report params: %w", err)
	}

	result, err := json.Marshal(report.Result)
	if err != nil {
		return fmt.Errorf("could not marshal report result: %w", err)
	}

	*p = PgReport{
		ID:       uuid.UUID(report.ID),
		UserID:   uuid.UUID(report.UserID),
		Kind:     string(report.Kind),
		Target:   report.Target,
		Params:   params,
		Status:   string(report.Status),
		Result:   result,
		Attempts: report.Attempts,
		LastError: sql.NullString{
			String: report.LastError,
			Valid:  report.LastError != "",
		},
		CreatedAt: report.CreatedAt,
		UpdatedAt: sql.NullTime{
			Time:  report.UpdatedAt,
			Valid: !report.UpdatedAt.IsZero(),
		},
		DeletedAt: sql.NullTime{
			Time:  report.DeletedAt,
			Valid: !report.DeletedAt.IsZero(),
		},
	}

	return nil
}

func domainReportsToPg(reports []domain.Report) ([]PgReport, error) {
	out := make([]PgReport, len(reports))
	for i := range out {
		if err := out[i].FromDomain(reports[i]); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func pgReportsToDomain(reports []PgReport) ([]domain.Report, error) {
	out := make([]domain.Report, 0, len(reports))
	for _, report := range reports {
		d, err := report.ToDomain()
		if err != nil {
			return nil, err
		}

		out = append(out, *d)
	}

	return out, nil
}
