package exam

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG returns a Repository backed by the exam_record table. The pool is
// shared and concurrency-safe, so one repository serves both the request path
// and blocking tooling.
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const examCols = `id, patient_id, patient_name, patient_cpf,
	patient, parameters, inference,
	health_status, risk_level, confidence,
	exam_at, responsible_doctor, observations, created_at, updated_at`

func (r *repoPG) scanRecord(row pgx.Row) (*ExamRecord, error) {
	var rec ExamRecord
	var patientID, patientName, patientCPF string
	err := row.Scan(&rec.ID, &patientID, &patientName, &patientCPF,
		&rec.Patient, &rec.Parameters, &rec.Inference,
		&rec.Risk.HealthStatus, &rec.Risk.RiskLevel, &rec.Risk.ConfidenceValue,
		&rec.ExamAt, &rec.ResponsibleDoctor, &rec.Observations, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *repoPG) Insert(ctx context.Context, rec *ExamRecord) (uuid.UUID, error) {
	rec.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO exam_record (id, patient_id, patient_name, patient_cpf,
			patient, parameters, inference,
			health_status, risk_level, confidence,
			exam_at, responsible_doctor, observations)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		rec.ID, rec.Patient.PatientID, rec.Patient.PatientName, rec.Patient.PatientCPF,
		rec.Patient, rec.Parameters, rec.Inference,
		rec.Risk.HealthStatus, rec.Risk.RiskLevel, rec.Risk.ConfidenceValue,
		rec.ExamAt, rec.ResponsibleDoctor, rec.Observations)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return rec.ID, nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*ExamRecord, error) {
	return r.scanRecord(r.pool.QueryRow(ctx, `SELECT `+examCols+` FROM exam_record WHERE id = $1`, id))
}

// filterClause builds the WHERE clause shared by Search and Count. CPF is a
// partial, case-insensitive match with formatting characters stripped; status
// is exact on the derived health status.
func filterClause(f SearchFilter, args []any) (string, []any) {
	var conds []string
	if f.CPF != "" {
		args = append(args, "%"+digitsOnly(f.CPF)+"%")
		conds = append(conds, fmt.Sprintf("patient_cpf ILIKE $%d", len(args)))
	}
	if f.HealthStatus != "" {
		args = append(args, f.HealthStatus)
		conds = append(conds, fmt.Sprintf("health_status = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, c := range s {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	if b.Len() == 0 {
		return s
	}
	return b.String()
}

func (r *repoPG) Search(ctx context.Context, f SearchFilter, limit, skip int) ([]*ExamRecord, int, error) {
	where, args := filterClause(f, nil)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM exam_record`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	args = append(args, limit, skip)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM exam_record%s ORDER BY exam_at DESC LIMIT $%d OFFSET $%d`,
		examCols, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var items []*ExamRecord
	for rows.Next() {
		rec, err := r.scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rec)
	}
	return items, total, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, id uuid.UUID, u ExamUpdate) (*ExamRecord, error) {
	return r.scanRecord(r.pool.QueryRow(ctx, `
		UPDATE exam_record SET
			patient_name = COALESCE($2, patient_name),
			patient = CASE WHEN $2::text IS NULL THEN patient
				ELSE jsonb_set(patient, '{patient_name}', to_jsonb($2::text)) END,
			responsible_doctor = COALESCE($3, responsible_doctor),
			observations = COALESCE($4, observations),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+examCols,
		id, u.PatientName, u.ResponsibleDoctor, u.Observations))
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM exam_record WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repoPG) Count(ctx context.Context, f SearchFilter) (int, error) {
	where, args := filterClause(f, nil)
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM exam_record`+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return total, nil
}

func (r *repoPG) AggregateByStatus(ctx context.Context) ([]StatusStats, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT health_status, COUNT(*), AVG(confidence)
		FROM exam_record GROUP BY health_status`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var stats []StatusStats
	for rows.Next() {
		var s StatusStats
		if err := rows.Scan(&s.Status, &s.Count, &s.MeanConfidence); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *repoPG) CountByRiskLevel(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT risk_level, COUNT(*) FROM exam_record GROUP BY risk_level`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var level string
		var n int
		if err := rows.Scan(&level, &n); err != nil {
			return nil, err
		}
		counts[level] = n
	}
	return counts, rows.Err()
}
