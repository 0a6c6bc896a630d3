package storage

import (
	"database/sql"
	"fmt"

	"github.com/nolantphillips/nhl-predictors/internal/model"
)

// InsertShots bulk-inserts shot records in a transaction. Re-inserting the
// same (game, event) pair replaces the stored row.
func (db *DB) InsertShots(shots []model.ShotRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO shots(
			game_id, event_idx, team_id, home, home_def_side, last_play,
			rebound, rush, home_skaters, away_skaters, x_coord, y_coord,
			shooter_id, shooter, position, shoots, career_shooting_pct,
			goalie_id, goalie, goalie_catches, career_save_pct,
			shot_type, zone, shot_class, danger_zone
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range shots {
		_, err = stmt.Exec(
			s.GameID, s.EventIdx, s.TeamID, s.Home, s.HomeDefSide, s.LastPlay,
			s.Rebound, s.Rush, s.HomeSkaters, s.AwaySkaters, s.XCoord, s.YCoord,
			s.ShooterID, s.Shooter, s.Position, s.Shoots, nullFloat(s.CareerShootingPct),
			nullID(s.GoalieID), s.Goalie, s.GoalieCatches, nullFloat(s.CareerSavePct),
			s.ShotType, s.Zone, s.ShotClass, s.DangerZone,
		)
		if err != nil {
			return fmt.Errorf("insert shot %d/%d: %w", s.GameID, s.EventIdx, err)
		}
	}
	return tx.Commit()
}

// ListShots returns every stored shot in game-then-event order.
func (db *DB) ListShots() ([]model.ShotRecord, error) {
	rows, err := db.conn.Query(`
		SELECT game_id, event_idx, team_id, home, home_def_side, last_play,
		       rebound, rush, home_skaters, away_skaters, x_coord, y_coord,
		       shooter_id, shooter, position, shoots, career_shooting_pct,
		       goalie_id, goalie, goalie_catches, career_save_pct,
		       shot_type, zone, shot_class, danger_zone
		FROM shots ORDER BY game_id, event_idx`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shots []model.ShotRecord
	for rows.Next() {
		var (
			s           model.ShotRecord
			shootingPct sql.NullFloat64
			savePct     sql.NullFloat64
			goalieID    sql.NullInt64
		)
		err := rows.Scan(
			&s.GameID, &s.EventIdx, &s.TeamID, &s.Home, &s.HomeDefSide, &s.LastPlay,
			&s.Rebound, &s.Rush, &s.HomeSkaters, &s.AwaySkaters, &s.XCoord, &s.YCoord,
			&s.ShooterID, &s.Shooter, &s.Position, &s.Shoots, &shootingPct,
			&goalieID, &s.Goalie, &s.GoalieCatches, &savePct,
			&s.ShotType, &s.Zone, &s.ShotClass, &s.DangerZone,
		)
		if err != nil {
			return nil, err
		}
		s.CareerShootingPct = floatPtr(shootingPct)
		s.CareerSavePct = floatPtr(savePct)
		if goalieID.Valid {
			s.GoalieID = goalieID.Int64
		}
		shots = append(shots, s)
	}
	return shots, rows.Err()
}

// GameShotCounts returns per-game shot and goal totals, newest game first.
func (db *DB) GameShotCounts() ([]model.GameShotCount, error) {
	rows, err := db.conn.Query(`
		SELECT game_id,
		       COUNT(1),
		       SUM(CASE WHEN shot_class = 'goal' THEN 1 ELSE 0 END)
		FROM shots GROUP BY game_id ORDER BY game_id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []model.GameShotCount
	for rows.Next() {
		var c model.GameShotCount
		if err := rows.Scan(&c.GameID, &c.Shots, &c.Goals); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// ReplaceFeatures replaces the stored feature table with rows. The feature
// table is always a full re-derivation of the shot store, so partial updates
// are never needed.
func (db *DB) ReplaceFeatures(features []model.FeatureRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM features`); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO features(
			home, last_play, rebound, rush, home_skaters, away_skaters,
			position, career_shooting_pct, career_save_pct,
			shot_type, shot_class, danger_zone, shot_on_glove,
			distance, shot_angle, danger_numeric, shot_value, situation
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, f := range features {
		_, err = stmt.Exec(
			f.Home, f.LastPlay, f.Rebound, f.Rush, f.HomeSkaters, f.AwaySkaters,
			f.Position, nullFloat(f.CareerShootingPct), nullFloat(f.CareerSavePct),
			f.ShotType, f.ShotClass, f.DangerZone, f.ShotOnGlove,
			f.Distance, f.ShotAngle, f.DangerNumeric, f.ShotValue, f.Situation,
		)
		if err != nil {
			return fmt.Errorf("insert feature row %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// ListFeatures returns the stored feature table in insertion order.
func (db *DB) ListFeatures() ([]model.FeatureRow, error) {
	rows, err := db.conn.Query(`
		SELECT home, last_play, rebound, rush, home_skaters, away_skaters,
		       position, career_shooting_pct, career_save_pct,
		       shot_type, shot_class, danger_zone, shot_on_glove,
		       distance, shot_angle, danger_numeric, shot_value, situation
		FROM features ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var features []model.FeatureRow
	for rows.Next() {
		var (
			f           model.FeatureRow
			shootingPct sql.NullFloat64
			savePct     sql.NullFloat64
		)
		err := rows.Scan(
			&f.Home, &f.LastPlay, &f.Rebound, &f.Rush, &f.HomeSkaters, &f.AwaySkaters,
			&f.Position, &shootingPct, &savePct,
			&f.ShotType, &f.ShotClass, &f.DangerZone, &f.ShotOnGlove,
			&f.Distance, &f.ShotAngle, &f.DangerNumeric, &f.ShotValue, &f.Situation,
		)
		if err != nil {
			return nil, err
		}
		f.CareerShootingPct = floatPtr(shootingPct)
		f.CareerSavePct = floatPtr(savePct)
		features = append(features, f)
	}
	return features, rows.Err()
}

func nullFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
