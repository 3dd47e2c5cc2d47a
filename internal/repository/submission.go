package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/contactdesk/contactdesk/internal/model"
)

// CreateSubmission inserts a new submission.
func (r *Repository) CreateSubmission(ctx context.Context, sub *model.Submission) error {
	query := `
		INSERT INTO submissions (id, user_name, email, subject, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		sub.ID,
		sub.UserName,
		sub.Email,
		sub.Subject.String(),
		sub.Message,
		sub.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}

	return nil
}

// ListSubmissionsByUser returns all submissions for a user name, newest first.
// Equal timestamps fall back to the id, which is a time-ordered UUIDv7.
// An unknown name yields an empty slice.
func (r *Repository) ListSubmissionsByUser(ctx context.Context, userName string) ([]*model.Submission, error) {
	query := `
		SELECT id, user_name, email, subject, message, created_at
		FROM submissions
		WHERE user_name = $1
		ORDER BY created_at DESC, id COLLATE "C" DESC
	`

	rows, err := r.pool.Query(ctx, query, userName)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	submissions := make([]*model.Submission, 0)
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		submissions = append(submissions, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating submissions: %w", err)
	}

	return submissions, nil
}

// scanSubmission scans a row into a Submission, decoding the subject label.
func scanSubmission(row pgx.Row) (*model.Submission, error) {
	var (
		sub     model.Submission
		subject string
	)

	err := row.Scan(
		&sub.ID,
		&sub.UserName,
		&sub.Email,
		&subject,
		&sub.Message,
		&sub.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	parsed, ok := model.ParseSubject(subject)
	if !ok {
		return nil, fmt.Errorf("unknown subject %q for submission %s", subject, sub.ID)
	}
	sub.Subject = parsed

	return &sub, nil
}
