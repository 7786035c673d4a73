package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

const (
	RoleCorretor   = "corretor"
	RoleSupervisor = "supervisor"
	RoleAdmin      = "admin"
)

type Corretor struct {
	ID          string     `db:"id" json:"id"`
	Nome        string     `db:"nome" json:"nome"`
	Email       string     `db:"email" json:"email"`
	SenhaHash   string     `db:"senha_hash" json:"-"`
	Role        string     `db:"role" json:"role"`
	Ativo       bool       `db:"ativo" json:"ativo"`
	Whatsapp    *string    `db:"whatsapp" json:"whatsapp"`
	UltimoLogin *time.Time `db:"ultimo_login" json:"ultimo_login"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

type CorretorStore struct {
	db *sqlx.DB
}

func (cs *CorretorStore) GetByEmail(ctx context.Context, email string) (*Corretor, error) {
	var c Corretor
	query := `SELECT id, nome, email, senha_hash, role, ativo, whatsapp, ultimo_login, created_at
	FROM corretores
	WHERE lower(email) = $1`
	if err := cs.db.GetContext(ctx, &c, query, strings.ToLower(strings.TrimSpace(email))); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (cs *CorretorStore) TouchLastLogin(ctx context.Context, id string) error {
	if _, err := cs.db.ExecContext(ctx, `UPDATE corretores SET ultimo_login = now() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}
