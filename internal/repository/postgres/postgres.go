package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"taskdesk/internal/repository"
)

// stmt accumulates "col = $n" SET fragments and bound arguments.
// Placeholders are numbered in the order values are added.
type stmt struct {
	parts []string
	args  []any
}

func (s *stmt) set(col string, v any) {
	s.args = append(s.args, v)
	s.parts = append(s.parts, fmt.Sprintf("%s = $%d", col, len(s.args)))
}

func (s *stmt) raw(expr string) {
	s.parts = append(s.parts, expr)
}

// bind appends v to the arguments and returns its placeholder.
func (s *stmt) bind(v any) string {
	s.args = append(s.args, v)
	return fmt.Sprintf("$%d", len(s.args))
}

func (s *stmt) setList() string {
	return strings.Join(s.parts, ", ")
}

func (s *stmt) empty() bool {
	return len(s.parts) == 0
}

// containsPattern builds an ILIKE pattern matching q anywhere, with wildcards escaped.
func containsPattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func translateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return fmt.Errorf("%w: %s", repository.ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}

// rowsAffectedOrNoRows returns sql.ErrNoRows when the statement changed nothing.
func rowsAffectedOrNoRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
