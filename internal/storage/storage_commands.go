package storage

import (
	"context"
	"time"
)

// CommandHashes returns the cached definition hash of every slash command
// registered in the guild, keyed by command name.
func (s *Storage) CommandHashes(ctx context.Context, guildID string) (out map[string]string, err error) {
	defer s.observe("command_hashes", time.Now(), &err)

	rows, err := s.db.QueryContext(ctx, `SELECT name, hash FROM command_hashes WHERE guild_id = ?`, guildID)
	if err != nil {
		return nil, s.storageErr("load command hashes", err)
	}
	defer rows.Close()

	out = make(map[string]string)
	for rows.Next() {
		var name, hash string
		if err := rows.Scan(&name, &hash); err != nil {
			return nil, s.storageErr("scan command hash", err)
		}
		out[name] = hash
	}
	if err := rows.Err(); err != nil {
		return nil, s.storageErr("load command hashes", err)
	}
	return out, nil
}

// SaveCommandHashes upserts the given hashes. Names not in hashes are left alone.
func (s *Storage) SaveCommandHashes(ctx context.Context, guildID string, hashes map[string]string) (err error) {
	defer s.observe("save_command_hashes", time.Now(), &err)

	if len(hashes) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.storageErr("save command hashes", err)
	}
	defer tx.Rollback()

	const q = `
		INSERT INTO command_hashes (guild_id, name, hash) VALUES (?, ?, ?)
		ON CONFLICT (guild_id, name) DO UPDATE SET hash = excluded.hash
	`
	for name, hash := range hashes {
		if _, err := tx.ExecContext(ctx, q, guildID, name, hash); err != nil {
			return s.storageErr("save command hashes", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return s.storageErr("save command hashes", err)
	}
	return nil
}

func (s *Storage) DeleteCommandHash(ctx context.Context, guildID, name string) (err error) {
	defer s.observe("delete_command_hash", time.Now(), &err)

	if _, err := s.db.ExecContext(ctx, `DELETE FROM command_hashes WHERE guild_id = ? AND name = ?`, guildID, name); err != nil {
		return s.storageErr("delete command hash", err)
	}
	return nil
}
