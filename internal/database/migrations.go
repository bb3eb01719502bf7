package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AddIndexes adds the lookup indexes used by membership cascades and listings
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Cascade lookups: boards of an org, cards of a board
		{"boards", "idx_boards_org_id", "org_id"},
		{"cards", "idx_cards_board_id", "board_id"},

		// Inverse membership sets (User.orgIds / boardIds / cardIds)
		{"organization_members", "idx_org_members_user_id", "user_id"},
		{"board_members", "idx_board_members_user_id", "user_id"},
		{"card_members", "idx_card_members_user_id", "user_id"},

		// Audit log listing per organization, newest first
		{"audit_logs", "idx_audit_logs_org_id_created_at", "org_id, created_at"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			zap.L().Debug("Index already exists, skipping", zap.String("index", idx.name))
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		zap.L().Info("Created index", zap.String("index", idx.name), zap.String("table", idx.table))
	}

	return nil
}
