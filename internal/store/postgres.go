package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"GO2GETHER_PLANNER/internal/itinerary"
	"GO2GETHER_PLANNER/internal/models"
)

//go:embed schema.sql
var schemaSQL string

const (
	insertTripSQL = `INSERT INTO trips (id, name, destination, start_date, end_date, creator_id, created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	insertMemberSQL = `INSERT INTO trip_members (trip_id, user_id, role, status, invited_at, joined_at)
         VALUES ($1, $2, $3, $4, $5, $6)
         ON CONFLICT (trip_id, user_id) DO NOTHING`

	selectTripColumns = `SELECT t.id, t.name, t.destination, t.start_date, t.end_date, t.creator_id, t.created_at, t.updated_at,
                m.user_id, m.role, m.status, m.invited_at, m.joined_at
           FROM trips t
           JOIN trip_members m ON m.trip_id = t.id`

	getTripSQL = selectTripColumns + `
          WHERE t.id = $1
          ORDER BY m.invited_at, m.user_id`

	listTripsSQL = selectTripColumns + `
          WHERE t.id IN (SELECT trip_id FROM trip_members WHERE user_id = $1 AND status = 'accepted')
          ORDER BY t.created_at DESC, t.id, m.invited_at, m.user_id`

	updateMemberSQL = `UPDATE trip_members SET status = $1, joined_at = $2 WHERE trip_id = $3 AND user_id = $4`
	deleteMemberSQL = `DELETE FROM trip_members WHERE trip_id = $1 AND user_id = $2`

	deleteTripItinerarySQL = `DELETE FROM trip_itineraries WHERE trip_id = $1`
	deleteTripSurveysSQL   = `DELETE FROM trip_surveys WHERE trip_id = $1`
	deleteTripMembersSQL   = `DELETE FROM trip_members WHERE trip_id = $1`
	deleteTripSQL          = `DELETE FROM trips WHERE id = $1`

	upsertSurveySQL = `INSERT INTO trip_surveys (trip_id, user_id, experiences, cuisines, food_experiences, preferred_start, preferred_end, blocked, submitted_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
         ON CONFLICT (trip_id, user_id) DO UPDATE
            SET experiences = EXCLUDED.experiences,
                cuisines = EXCLUDED.cuisines,
                food_experiences = EXCLUDED.food_experiences,
                preferred_start = EXCLUDED.preferred_start,
                preferred_end = EXCLUDED.preferred_end,
                blocked = EXCLUDED.blocked,
                updated_at = EXCLUDED.updated_at
         RETURNING submitted_at`

	listSurveysSQL = `SELECT trip_id, user_id, experiences, cuisines, food_experiences, preferred_start, preferred_end, blocked, submitted_at, updated_at
           FROM trip_surveys
          WHERE trip_id = $1
          ORDER BY submitted_at, user_id`

	deleteSurveySQL = `DELETE FROM trip_surveys WHERE trip_id = $1 AND user_id = $2`

	getItinerarySQL = `SELECT trip_id, owner_id, document, prompt_truncated, version, updated_at
           FROM trip_itineraries WHERE trip_id = $1 AND document IS NOT NULL`

	itineraryVersionSQL = `SELECT version FROM trip_itineraries WHERE trip_id = $1`

	// a cleared row keeps its version so the next save continues from it
	insertItinerarySQL = `INSERT INTO trip_itineraries (trip_id, owner_id, document, prompt_truncated, version, updated_at)
         VALUES ($1, $2, $3, $4, 1, $5)
         ON CONFLICT (trip_id) DO UPDATE
            SET owner_id = EXCLUDED.owner_id,
                document = EXCLUDED.document,
                prompt_truncated = EXCLUDED.prompt_truncated,
                version = trip_itineraries.version + 1,
                updated_at = EXCLUDED.updated_at
          WHERE trip_itineraries.document IS NULL
         RETURNING version`

	updateItinerarySQL = `UPDATE trip_itineraries
            SET owner_id = $1,
                document = $2,
                prompt_truncated = $3,
                version = version + 1,
                updated_at = $4
          WHERE trip_id = $5 AND version = $6
         RETURNING version`

	clearItinerarySQL = `UPDATE trip_itineraries
            SET document = NULL,
                prompt_truncated = FALSE,
                version = version + 1,
                updated_at = now()
          WHERE trip_id = $1 AND document IS NOT NULL
         RETURNING version`

	insertNotificationSQL = `INSERT INTO notifications (user_id, type, title, message, data, action_url)
         VALUES ($1, $2, $3, $4, $5::jsonb, $6)
         RETURNING id, created_at`

	countUnreadSQL = `SELECT COUNT(1) FROM notifications WHERE user_id=$1 AND read=false`
	markReadSQL    = `UPDATE notifications SET read=true WHERE id=$1 AND user_id=$2 AND read=false`
	markAllReadSQL = `UPDATE notifications SET read=true WHERE user_id=$1 AND read=false`
)

// Postgres implements Store on database/sql. Production wires it over the
// pgx pool with stdlib.OpenDBFromPool.
type Postgres struct {
	db *sql.DB
}

// NewPostgres wraps db.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Migrate creates missing tables and indexes.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *Postgres) CreateTrip(ctx context.Context, trip *models.Trip) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, insertTripSQL,
		trip.ID, trip.Name, trip.Destination, trip.StartDate, trip.EndDate, trip.OwnerID, trip.CreatedAt, trip.UpdatedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert trip: %w", err)
	}
	for _, m := range trip.Members {
		if _, err := tx.ExecContext(ctx, insertMemberSQL,
			trip.ID, m.UserID, m.Role, m.Status, m.InvitedAt, m.JoinedAt,
		); err != nil {
			return fmt.Errorf("insert trip member: %w", err)
		}
	}
	return tx.Commit()
}

func (p *Postgres) GetTrip(ctx context.Context, tripID uuid.UUID) (*models.Trip, error) {
	trips, err := p.queryTrips(ctx, getTripSQL, tripID)
	if err != nil {
		return nil, err
	}
	if len(trips) == 0 {
		return nil, ErrNotFound
	}
	return &trips[0], nil
}

func (p *Postgres) ListTripsForUser(ctx context.Context, userID uuid.UUID) ([]models.Trip, error) {
	return p.queryTrips(ctx, listTripsSQL, userID)
}

// queryTrips folds one row per member into trips, keeping row order.
func (p *Postgres) queryTrips(ctx context.Context, query string, arg any) ([]models.Trip, error) {
	rows, err := p.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("query trips: %w", err)
	}
	defer rows.Close()

	trips := make([]models.Trip, 0)
	index := map[uuid.UUID]int{}
	for rows.Next() {
		var t models.Trip
		var m models.TripMember
		var joinedAt sql.NullTime
		if err := rows.Scan(&t.ID, &t.Name, &t.Destination, &t.StartDate, &t.EndDate, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt,
			&m.UserID, &m.Role, &m.Status, &m.InvitedAt, &joinedAt); err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		if joinedAt.Valid {
			v := joinedAt.Time
			m.JoinedAt = &v
		}
		i, ok := index[t.ID]
		if !ok {
			i = len(trips)
			index[t.ID] = i
			trips = append(trips, t)
		}
		trips[i].Members = append(trips[i].Members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trips: %w", err)
	}
	return trips, nil
}

func (p *Postgres) DeleteTrip(ctx context.Context, tripID uuid.UUID) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	for _, q := range []string{deleteTripItinerarySQL, deleteTripSurveysSQL, deleteTripMembersSQL} {
		if _, err := tx.ExecContext(ctx, q, tripID); err != nil {
			return fmt.Errorf("delete trip data: %w", err)
		}
	}
	res, err := tx.ExecContext(ctx, deleteTripSQL, tripID)
	if err != nil {
		return fmt.Errorf("delete trip: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

func (p *Postgres) AddMember(ctx context.Context, tripID uuid.UUID, m models.TripMember) error {
	res, err := p.db.ExecContext(ctx, insertMemberSQL, tripID, m.UserID, m.Role, m.Status, m.InvitedAt, m.JoinedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("insert trip member: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDuplicate
	}
	return nil
}

func (p *Postgres) UpdateMemberStatus(ctx context.Context, tripID, userID uuid.UUID, status string, joinedAt *time.Time) error {
	res, err := p.db.ExecContext(ctx, updateMemberSQL, status, joinedAt, tripID, userID)
	if err != nil {
		return fmt.Errorf("update trip member: %w", err)
	}
	return expectOne(res)
}

func (p *Postgres) RemoveMember(ctx context.Context, tripID, userID uuid.UUID) error {
	res, err := p.db.ExecContext(ctx, deleteMemberSQL, tripID, userID)
	if err != nil {
		return fmt.Errorf("delete trip member: %w", err)
	}
	return expectOne(res)
}

func (p *Postgres) PutSurvey(ctx context.Context, r *models.SurveyResponse) error {
	exp, err := jsonList(r.Experiences)
	if err != nil {
		return err
	}
	cui, err := jsonList(r.Cuisines)
	if err != nil {
		return err
	}
	food, err := jsonList(r.FoodExperiences)
	if err != nil {
		return err
	}
	blocked, err := jsonList(r.Blocked)
	if err != nil {
		return err
	}

	err = p.db.QueryRowContext(ctx, upsertSurveySQL,
		r.TripID, r.UserID, exp, cui, food, minutes(r.PreferredStart), minutes(r.PreferredEnd), blocked, r.SubmittedAt,
	).Scan(&r.SubmittedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("upsert survey: %w", err)
	}
	return nil
}

func (p *Postgres) ListSurveys(ctx context.Context, tripID uuid.UUID) ([]models.SurveyResponse, error) {
	rows, err := p.db.QueryContext(ctx, listSurveysSQL, tripID)
	if err != nil {
		return nil, fmt.Errorf("query surveys: %w", err)
	}
	defer rows.Close()

	out := make([]models.SurveyResponse, 0)
	for rows.Next() {
		var r models.SurveyResponse
		var exp, cui, food, blocked []byte
		var start, end sql.NullInt64
		if err := rows.Scan(&r.TripID, &r.UserID, &exp, &cui, &food, &start, &end, &blocked, &r.SubmittedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan survey: %w", err)
		}
		for _, f := range []struct {
			raw []byte
			dst any
		}{{exp, &r.Experiences}, {cui, &r.Cuisines}, {food, &r.FoodExperiences}, {blocked, &r.Blocked}} {
			if err := json.Unmarshal(f.raw, f.dst); err != nil {
				return nil, fmt.Errorf("decode survey: %w", err)
			}
		}
		if start.Valid {
			r.PreferredStart = models.TimeOfDay(start.Int64).Ptr()
		}
		if end.Valid {
			r.PreferredEnd = models.TimeOfDay(end.Int64).Ptr()
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate surveys: %w", err)
	}
	return out, nil
}

func (p *Postgres) DeleteSurvey(ctx context.Context, tripID, userID uuid.UUID) error {
	if _, err := p.db.ExecContext(ctx, deleteSurveySQL, tripID, userID); err != nil {
		return fmt.Errorf("delete survey: %w", err)
	}
	return nil
}

func (p *Postgres) GetItinerary(ctx context.Context, tripID uuid.UUID) (*models.Itinerary, error) {
	var it models.Itinerary
	var doc []byte
	err := p.db.QueryRowContext(ctx, getItinerarySQL, tripID).
		Scan(&it.TripID, &it.OwnerID, &doc, &it.Truncated, &it.Version, &it.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query itinerary: %w", err)
	}
	if it.Document, err = itinerary.Decode(doc); err != nil {
		return nil, err
	}
	return &it, nil
}

func (p *Postgres) SaveItinerary(ctx context.Context, it *models.Itinerary, expectedVersion int64) error {
	doc, err := itinerary.Encode(it.Document)
	if err != nil {
		return err
	}

	var row *sql.Row
	if expectedVersion == 0 {
		row = p.db.QueryRowContext(ctx, insertItinerarySQL,
			it.TripID, it.OwnerID, string(doc), it.Truncated, it.UpdatedAt)
	} else {
		row = p.db.QueryRowContext(ctx, updateItinerarySQL,
			it.OwnerID, string(doc), it.Truncated, it.UpdatedAt, it.TripID, expectedVersion)
	}
	var version int64
	err = row.Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrConflict
	case err != nil:
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("save itinerary: %w", err)
	}
	it.Version = version
	return nil
}

func (p *Postgres) ItineraryVersion(ctx context.Context, tripID uuid.UUID) (int64, error) {
	var version int64
	err := p.db.QueryRowContext(ctx, itineraryVersionSQL, tripID).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query itinerary version: %w", err)
	}
	return version, nil
}

func (p *Postgres) ClearItinerary(ctx context.Context, tripID uuid.UUID) (int64, error) {
	var version int64
	err := p.db.QueryRowContext(ctx, clearItinerarySQL, tripID).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return p.ItineraryVersion(ctx, tripID)
	}
	if err != nil {
		return 0, fmt.Errorf("clear itinerary: %w", err)
	}
	return version, nil
}

func (p *Postgres) DeleteItinerary(ctx context.Context, tripID uuid.UUID) error {
	if _, err := p.db.ExecContext(ctx, deleteTripItinerarySQL, tripID); err != nil {
		return fmt.Errorf("delete itinerary: %w", err)
	}
	return nil
}

func (p *Postgres) CreateNotification(ctx context.Context, n *models.Notification) error {
	var data any
	if len(n.Data) > 0 {
		b, err := json.Marshal(n.Data)
		if err != nil {
			return fmt.Errorf("failed to marshal notification data: %w", err)
		}
		data = string(b)
	}

	insertCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	err := p.db.QueryRowContext(insertCtx, insertNotificationSQL,
		n.UserID, string(n.Type), n.Title, n.Message, data, n.ActionURL,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (p *Postgres) ListNotifications(ctx context.Context, userID uuid.UUID, f NotificationFilter) (*NotificationPage, error) {
	page := &NotificationPage{Items: make([]models.Notification, 0)}
	if err := p.db.QueryRowContext(ctx, countUnreadSQL, userID).Scan(&page.Unread); err != nil {
		return nil, fmt.Errorf("count unread notifications: %w", err)
	}

	args := []any{userID}
	where := `WHERE user_id=$1`
	argNum := 2
	if f.UnreadOnly {
		where += " AND read=false"
	}
	if f.Type != "" {
		where += fmt.Sprintf(" AND type=$%d", argNum)
		args = append(args, f.Type)
		argNum++
	}

	if err := p.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COUNT(1) FROM notifications %s`, where), args...,
	).Scan(&page.Total); err != nil {
		return nil, fmt.Errorf("count notifications: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT id, type, title, message, data, action_url, read, created_at
           FROM notifications %s
          ORDER BY created_at DESC
          LIMIT $%d OFFSET $%d`, where, argNum, argNum+1)

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		n := models.Notification{UserID: userID}
		var typ string
		var message, actionURL sql.NullString
		var data []byte
		if err := rows.Scan(&n.ID, &typ, &n.Title, &message, &data, &actionURL, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Type = models.NotificationType(typ)
		if message.Valid {
			n.Message = &message.String
		}
		if actionURL.Valid {
			n.ActionURL = &actionURL.String
		}
		if len(data) > 0 && string(data) != "null" {
			// a malformed payload is dropped rather than failing the page
			_ = json.Unmarshal(data, &n.Data)
		}
		page.Items = append(page.Items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return page, nil
}

func (p *Postgres) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	res, err := p.db.ExecContext(ctx, markReadSQL, id, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return expectOne(res)
}

func (p *Postgres) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	res, err := p.db.ExecContext(ctx, markAllReadSQL, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return res.RowsAffected()
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// jsonList encodes a slice for a JSONB column; nil becomes [].
func jsonList[T any](v []T) (string, error) {
	if v == nil {
		v = []T{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func minutes(t *models.TimeOfDay) any {
	if t == nil {
		return nil
	}
	return int64(*t)
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
