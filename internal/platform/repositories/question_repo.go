package repositories

import (
	"database/sql"
	"time"

	"reviewback/internal/platform/models"
)

type QuestionRepository struct {
	db *sql.DB
}

func NewQuestionRepository(db *sql.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// ListByCompany returns live questions only.
func (r *QuestionRepository) ListByCompany(companyID string) ([]*models.CompanyQuestion, error) {
	rows, err := r.db.Query(`
		SELECT id, company_id, question, correct_answer, deleted_at, created_at
		FROM company_questions
		WHERE company_id = ? AND deleted_at IS NULL
		ORDER BY created_at
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := []*models.CompanyQuestion{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// GetWithTrashed looks a question up regardless of soft deletion. Answers
// must keep resolving against questions removed after submission.
func (r *QuestionRepository) GetWithTrashed(id string) (*models.CompanyQuestion, error) {
	row := r.db.QueryRow(`
		SELECT id, company_id, question, correct_answer, deleted_at, created_at
		FROM company_questions WHERE id = ?
	`, id)
	q, err := scanQuestion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return q, err
}

// ReplaceForCompany soft-deletes every live question and recreates the given
// set. Questions are cheap to regenerate and nothing references them by
// identity across an update.
func (r *QuestionRepository) ReplaceForCompany(companyID string, questions []*models.CompanyQuestion) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	if _, err := tx.Exec(`
		UPDATE company_questions SET deleted_at = ? WHERE company_id = ? AND deleted_at IS NULL
	`, now, companyID); err != nil {
		return err
	}

	for _, q := range questions {
		if _, err := tx.Exec(`
			INSERT INTO company_questions (id, company_id, question, correct_answer, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, q.ID, companyID, q.Question, q.CorrectAnswer, now); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *QuestionRepository) CreateAnswer(answer *models.QuestionAnswer) error {
	_, err := r.db.Exec(`
		INSERT INTO question_answers (id, user_id, question_id, answer, is_correct, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, answer.ID, answer.UserID, answer.QuestionID, answer.Answer, answer.IsCorrect, answer.CreatedAt)
	return err
}

// AnsweredQuestion pairs a stored answer with its question text, resolving
// through soft-deleted questions.
type AnsweredQuestion struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func (r *QuestionRepository) ListAnswersForUser(userID string) ([]*AnsweredQuestion, error) {
	rows, err := r.db.Query(`
		SELECT company_questions.question, question_answers.answer
		FROM question_answers
		JOIN company_questions ON question_answers.question_id = company_questions.id
		WHERE question_answers.user_id = ?
		ORDER BY question_answers.created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers := []*AnsweredQuestion{}
	for rows.Next() {
		var a AnsweredQuestion
		if err := rows.Scan(&a.Question, &a.Answer); err != nil {
			return nil, err
		}
		answers = append(answers, &a)
	}
	return answers, rows.Err()
}

func scanQuestion(s interface {
	Scan(dest ...interface{}) error
}) (*models.CompanyQuestion, error) {
	var q models.CompanyQuestion
	var deletedAt sql.NullInt64

	err := s.Scan(&q.ID, &q.CompanyID, &q.Question, &q.CorrectAnswer, &deletedAt, &q.CreatedAt)
	if err != nil {
		return nil, err
	}
	if deletedAt.Valid {
		val := deletedAt.Int64
		q.DeletedAt = &val
	}
	return &q, nil
}
