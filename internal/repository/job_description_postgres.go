package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"jdmatch/internal/database"
	"jdmatch/internal/domain/jobdescription"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const jobDescriptionColumns = `id, user_id, position, min_years, max_years,
	required_skills, required_qualifications, nice_to_have_skills, nice_to_have_qualifications,
	responsibilities, total_resumes, strong_matches, average_score, created_at, updated_at`

var sortColumns = map[jobdescription.SortField]string{
	jobdescription.SortByCreatedAt: "created_at",
	jobdescription.SortByPosition:  "position",
	jobdescription.SortByUpdatedAt: "updated_at",
}

type PostgresJobDescriptionRepository struct {
	db database.DB
}

func NewPostgresJobDescriptionRepository(db database.DB) *PostgresJobDescriptionRepository {
	return &PostgresJobDescriptionRepository{db: db}
}

func (r *PostgresJobDescriptionRepository) List(ctx context.Context, userID string, q jobdescription.ListQuery) ([]jobdescription.JobDescription, int64, error) {
	lq := buildListQuery(userID, q)

	var total int64
	if err := r.db.QueryRow(ctx, lq.countSQL, lq.filterArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 || int64(q.Offset()) >= total {
		return []jobdescription.JobDescription{}, total, nil
	}

	rows, err := r.db.Query(ctx, lq.pageSQL, lq.pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]jobdescription.JobDescription, 0, q.Size)
	for rows.Next() {
		jd, err := scanJobDescription(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, jd)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PostgresJobDescriptionRepository) Aggregate(ctx context.Context, userID string) (jobdescription.Aggregate, error) {
	row := r.db.QueryRow(ctx,
		`SELECT COUNT(1),
		        COALESCE(SUM(total_resumes), 0),
		        COALESCE(AVG(average_score), 0),
		        COALESCE(SUM(strong_matches), 0)
		 FROM job_descriptions
		 WHERE user_id = $1`,
		userID,
	)
	var a jobdescription.Aggregate
	if err := row.Scan(&a.Count, &a.TotalResumes, &a.AverageScore, &a.StrongMatches); err != nil {
		return jobdescription.Aggregate{}, err
	}
	return a, nil
}

func (r *PostgresJobDescriptionRepository) GetByID(ctx context.Context, userID string, id uuid.UUID) (jobdescription.JobDescription, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+jobDescriptionColumns+`
		 FROM job_descriptions
		 WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	jd, err := scanJobDescription(row)
	if err != nil {
		return jobdescription.JobDescription{}, notFoundOr(err)
	}
	return jd, nil
}

func (r *PostgresJobDescriptionRepository) Create(ctx context.Context, jd jobdescription.JobDescription) (jobdescription.JobDescription, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO job_descriptions (
			id, user_id, position, min_years, max_years,
			required_skills, required_qualifications, nice_to_have_skills, nice_to_have_qualifications,
			responsibilities, total_resumes, strong_matches, average_score, created_at, updated_at
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 RETURNING `+jobDescriptionColumns,
		jd.ID,
		jd.UserID,
		jd.Position,
		jd.ExperienceRequired.MinYears,
		jd.ExperienceRequired.MaxYears,
		textArray(jd.RequiredSkills),
		textArray(jd.RequiredQualifications),
		textArray(jd.NiceToHaveSkills),
		textArray(jd.NiceToHaveQualifications),
		textArray(jd.Responsibilities),
		jd.Stats.TotalResumes,
		jd.Stats.StrongMatches,
		jd.Stats.AverageScore,
		jd.CreatedAt.UTC(),
		jd.UpdatedAt.UTC(),
	)
	return scanJobDescription(row)
}

func (r *PostgresJobDescriptionRepository) Update(ctx context.Context, userID string, id uuid.UUID, in jobdescription.UpdateInput, now time.Time) (jobdescription.JobDescription, error) {
	query, args := buildUpdateQuery(userID, id, in, now)
	jd, err := scanJobDescription(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return jobdescription.JobDescription{}, notFoundOr(err)
	}
	return jd, nil
}

func (r *PostgresJobDescriptionRepository) Delete(ctx context.Context, userID string, id uuid.UUID) (bool, error) {
	n, err := r.db.Exec(ctx, `DELETE FROM job_descriptions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

type listQuery struct {
	countSQL   string
	pageSQL    string
	filterArgs []any
	pageArgs   []any
}

// buildListQuery renders the count and page statements for one list call.
// Sort columns come from a fixed whitelist; seq breaks ties in insertion order.
func buildListQuery(userID string, q jobdescription.ListQuery) listQuery {
	where := []string{"user_id = $1"}
	args := []any{userID}

	if term := q.SearchTerm(); term != "" {
		args = append(args, "%"+escapeLike(term)+"%")
		p := "$" + strconv.Itoa(len(args))
		where = append(where, fmt.Sprintf(
			`(position ILIKE %[1]s ESCAPE '\'
			  OR EXISTS (SELECT 1 FROM unnest(required_skills) AS s WHERE s ILIKE %[1]s ESCAPE '\')
			  OR EXISTS (SELECT 1 FROM unnest(responsibilities) AS s WHERE s ILIKE %[1]s ESCAPE '\'))`,
			p,
		))
	}
	whereSQL := strings.Join(where, " AND ")

	col, ok := sortColumns[q.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if q.SortOrder == jobdescription.SortAsc {
		dir = "ASC"
	}

	pageArgs := append(append([]any{}, args...), q.Size, q.Offset())
	limitP := "$" + strconv.Itoa(len(pageArgs)-1)
	offsetP := "$" + strconv.Itoa(len(pageArgs))

	return listQuery{
		countSQL: `SELECT COUNT(1) FROM job_descriptions WHERE ` + whereSQL,
		pageSQL: `SELECT ` + jobDescriptionColumns + `
		 FROM job_descriptions
		 WHERE ` + whereSQL + `
		 ORDER BY ` + col + ` ` + dir + `, seq ASC
		 LIMIT ` + limitP + ` OFFSET ` + offsetP,
		filterArgs: args,
		pageArgs:   pageArgs,
	}
}

func buildUpdateQuery(userID string, id uuid.UUID, in jobdescription.UpdateInput, now time.Time) (string, []any) {
	var sets []string
	var args []any
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}

	if in.Position != nil {
		set("position", *in.Position)
	}
	if in.ExperienceRequired != nil {
		set("min_years", in.ExperienceRequired.MinYears)
		set("max_years", in.ExperienceRequired.MaxYears)
	}
	if in.RequiredSkills != nil {
		set("required_skills", textArray(in.RequiredSkills))
	}
	if in.RequiredQualifications != nil {
		set("required_qualifications", textArray(in.RequiredQualifications))
	}
	if in.NiceToHaveSkills != nil {
		set("nice_to_have_skills", textArray(in.NiceToHaveSkills))
	}
	if in.NiceToHaveQualifications != nil {
		set("nice_to_have_qualifications", textArray(in.NiceToHaveQualifications))
	}
	if in.Responsibilities != nil {
		set("responsibilities", textArray(in.Responsibilities))
	}
	set("updated_at", now.UTC())

	args = append(args, id, userID)
	idP := "$" + strconv.Itoa(len(args)-1)
	userP := "$" + strconv.Itoa(len(args))

	query := `UPDATE job_descriptions SET ` + strings.Join(sets, ", ") + `
		 WHERE id = ` + idP + ` AND user_id = ` + userP + `
		 RETURNING ` + jobDescriptionColumns
	return query, args
}

// escapeLike makes s match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// textArray keeps absent lists out of NOT NULL columns.
func textArray(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func scanJobDescription(row database.Row) (jobdescription.JobDescription, error) {
	var jd jobdescription.JobDescription
	var maxYears *float64
	err := row.Scan(
		&jd.ID,
		&jd.UserID,
		&jd.Position,
		&jd.ExperienceRequired.MinYears,
		&maxYears,
		&jd.RequiredSkills,
		&jd.RequiredQualifications,
		&jd.NiceToHaveSkills,
		&jd.NiceToHaveQualifications,
		&jd.Responsibilities,
		&jd.Stats.TotalResumes,
		&jd.Stats.StrongMatches,
		&jd.Stats.AverageScore,
		&jd.CreatedAt,
		&jd.UpdatedAt,
	)
	if err != nil {
		return jobdescription.JobDescription{}, err
	}
	jd.ExperienceRequired.MaxYears = maxYears
	jd.CreatedAt = jd.CreatedAt.UTC()
	jd.UpdatedAt = jd.UpdatedAt.UTC()
	return jd, nil
}

func notFoundOr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return ErrJobDescriptionNotFound
	}
	return err
}
