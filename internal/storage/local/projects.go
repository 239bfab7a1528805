package local

import (
	"context"
	"fmt"

	"github.com/MrJamesThe3rd/lensflow/internal/model"
	"github.com/MrJamesThe3rd/lensflow/internal/storage"
)

const projectColumns = `id, title, client, type, status, budget, paid_amount, start_date, deadline`

func scanProject(row scanner) (model.Project, error) {
	var (
		p                        model.Project
		budget, paid, start, due string
	)

	if err := row.Scan(&p.ID, &p.Title, &p.Client, &p.Type, &p.Status, &budget, &paid, &start, &due); err != nil {
		return model.Project{}, err
	}

	var err error

	if p.Budget, err = parseDecimal(budget); err != nil {
		return model.Project{}, err
	}

	if p.PaidAmount, err = parseDecimal(paid); err != nil {
		return model.Project{}, err
	}

	if p.StartDate, err = parseDay(start); err != nil {
		return model.Project{}, err
	}

	if p.Deadline, err = parseDay(due); err != nil {
		return model.Project{}, err
	}

	return p, nil
}

func projectArgs(p model.Project) []any {
	return []any{
		p.ID, p.Title, p.Client, string(p.Type), string(p.Status),
		p.Budget.String(), p.PaidAmount.String(),
		model.FormatDay(p.StartDate), model.FormatDay(p.Deadline),
	}
}

func (s *Store) Projects(ctx context.Context) ([]model.Project, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+projectColumns+" FROM projects ORDER BY start_date DESC, id")
	if err != nil {
		return nil, storage.Transport("listing projects", err)
	}
	defer rows.Close()

	var projects []model.Project

	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}

		projects = append(projects, p)
	}

	if err := rows.Err(); err != nil {
		return nil, storage.Transport("listing projects", err)
	}

	return projects, nil
}

func (s *Store) AddProject(ctx context.Context, p model.Project) error {
	ok, err := s.insert(ctx, "adding project",
		"INSERT INTO projects ("+projectColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT(id) DO NOTHING",
		projectArgs(p)...)
	if err != nil {
		return err
	}

	if !ok {
		return fmt.Errorf("adding project %s: %w", p.ID, model.ErrDuplicateKey)
	}

	return nil
}

func (s *Store) PutProject(ctx context.Context, p model.Project) error {
	return s.exec(ctx, "putting project",
		"INSERT OR REPLACE INTO projects ("+projectColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		projectArgs(p)...)
}

func (s *Store) UpdateProject(ctx context.Context, id string, patch storage.ProjectPatch) error {
	var set setClause

	if patch.Title != nil {
		set.add("title", *patch.Title)
	}

	if patch.Client != nil {
		set.add("client", *patch.Client)
	}

	if patch.Type != nil {
		set.add("type", string(*patch.Type))
	}

	if patch.Status != nil {
		set.add("status", string(*patch.Status))
	}

	if patch.Budget != nil {
		set.add("budget", patch.Budget.String())
	}

	if patch.PaidAmount != nil {
		set.add("paid_amount", patch.PaidAmount.String())
	}

	if patch.Deadline != nil {
		set.add("deadline", model.FormatDay(*patch.Deadline))
	}

	return s.update(ctx, "updating project", "projects", id, set)
}

func (s *Store) DeleteProject(ctx context.Context, id string) error {
	return s.exec(ctx, "deleting project", "DELETE FROM projects WHERE id = ?", id)
}
