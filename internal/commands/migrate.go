package commands

import (
	"log"

	"presence/backend/internal/pkg/repository/postgresql"

	"github.com/pkg/errors"
)

// ErrHelp provides context that help was given.
var ErrHelp = errors.New("provided help")

type Scheme struct {
	Index       int
	Description string
	Query       string
}

var scheme = []Scheme{
	{
		Index:       1,
		Description: "Enable pgvector for face embeddings.",
		Query: `
        CREATE EXTENSION IF NOT EXISTS vector;`,
	},
	{
		Index:       2,
		Description: "Create table: organizations.",
		Query: `
        CREATE TABLE IF NOT EXISTS organizations (
            id serial primary key,
            name text not null,
            timezone text default 'UTC',
            address text,
            phone text,
            email text,
            logo_url text,
            created_at timestamp default now(),
            created_by int,
            updated_at timestamp,
            updated_by int,
            deleted_at timestamp,
            deleted_by int
        );`,
	},
	{
		Index:       3,
		Description: "Create table: branches.",
		Query: `
        CREATE TABLE IF NOT EXISTS branches (
            id serial primary key,
            organization_id int not null references organizations(id),
            name text not null,
            address text,
            latitude float,
            longitude float,
            radius int,
            created_at timestamp default now(),
            created_by int,
            updated_at timestamp,
            updated_by int,
            deleted_at timestamp,
            deleted_by int
        );`,
	},
	{
		Index:       4,
		Description: "CREATE TYPE \"user_role\" AS ENUM",
		Query: `
        CREATE TYPE "user_role" AS ENUM ('EMPLOYEE', 'ADMIN', 'DEVICE', 'DASHBOARD');`,
	},
	{
		Index:       5,
		Description: "Create table: users.",
		Query: `
        CREATE TABLE IF NOT EXISTS users (
            id serial primary key,
            organization_id int references organizations(id),
            branch_id int references branches(id),
            staff_id text not null,
            password text not null,
            role user_role,
            full_name text,
            phone text,
            email text,
            photo_url text,
            created_at timestamp default now(),
            created_by int references users(id),
            updated_at timestamp,
            updated_by int references users(id),
            deleted_at timestamp,
            deleted_by int references users(id)
        );`,
	},
	{
		Index:       6,
		Description: "Create admin with staff_id: Admin01, password: 1",
		Query: `
        INSERT INTO users(staff_id, role, password)
        SELECT 'Admin01', 'ADMIN', '$2a$10$NKtnMwDPFSQLG6uOi4Zqheru5Ygbj9TWFHjpl478rRSaO5cJ9QuH2'
        WHERE NOT EXISTS (SELECT staff_id FROM users WHERE staff_id = 'Admin01');
        `,
	},
	{
		Index:       7,
		Description: "Create table: devices.",
		Query: `
        CREATE TABLE IF NOT EXISTS devices (
            id serial primary key,
            organization_id int not null references organizations(id),
            branch_id int not null references branches(id),
            name text not null,
            token text not null unique,
            active bool default true,
            last_seen_at timestamp,
            created_at timestamp default now(),
            created_by int references users(id),
            updated_at timestamp,
            updated_by int references users(id),
            deleted_at timestamp,
            deleted_by int references users(id)
        );`,
	},
	{
		Index:       8,
		Description: "Create table: face_embeddings.",
		Query: `
        CREATE TABLE IF NOT EXISTS face_embeddings (
            id serial primary key,
            user_id int not null references users(id),
            organization_id int not null references organizations(id),
            embedding vector(128) not null,
            quality float not null default 0,
            is_primary bool not null default true,
            created_at timestamp default now(),
            created_by int references users(id),
            updated_at timestamp,
            updated_by int references users(id),
            deleted_at timestamp,
            deleted_by int references users(id)
        );`,
	},
	{
		Index:       9,
		Description: "One primary embedding per user.",
		Query: `
        CREATE UNIQUE INDEX IF NOT EXISTS face_embeddings_primary_uq
        ON face_embeddings (user_id)
        WHERE is_primary AND deleted_at IS NULL;`,
	},
	{
		Index:       10,
		Description: "ANN index for similarity search.",
		Query: `
        CREATE INDEX IF NOT EXISTS face_embeddings_embedding_idx
        ON face_embeddings
        USING hnsw (embedding vector_cosine_ops);`,
	},
	{
		Index:       11,
		Description: "Create table: attendance_events.",
		Query: `
        CREATE TABLE IF NOT EXISTS attendance_events (
            id serial primary key,
            user_id int not null references users(id),
            device_id int references devices(id),
            organization_id int not null references organizations(id),
            branch_id int not null references branches(id),
            work_day date not null,
            clock_in timestamp not null,
            clock_out timestamp,
            status text not null default 'present',
            confidence_score float,
            verification_method text not null default 'face',
            photo_url text,
            synced bool not null default true,
            created_at timestamp default now(),
            created_by int references users(id),
            updated_at timestamp,
            updated_by int references users(id),
            deleted_at timestamp,
            deleted_by int references users(id)
        );`,
	},
	{
		Index:       12,
		Description: "One attendance event per user, branch and work day.",
		Query: `
        CREATE UNIQUE INDEX IF NOT EXISTS attendance_events_day_uq
        ON attendance_events (user_id, branch_id, work_day)
        WHERE deleted_at IS NULL;`,
	},
	{
		Index:       13,
		Description: "Create table: visitors.",
		Query: `
        CREATE TABLE IF NOT EXISTS visitors (
            id serial primary key,
            organization_id int not null references organizations(id),
            branch_id int not null references branches(id),
            full_name text not null,
            phone text,
            purpose text,
            host_user_id int references users(id),
            badge_no text not null,
            check_in timestamp not null,
            check_out timestamp,
            created_at timestamp default now(),
            created_by int references users(id),
            updated_at timestamp,
            updated_by int references users(id),
            deleted_at timestamp,
            deleted_by int references users(id)
        );`,
	},
	{
		Index:       14,
		Description: "Create table: customers.",
		Query: `
        CREATE TABLE IF NOT EXISTS customers (
            id serial primary key,
            organization_id int not null references organizations(id),
            full_name text not null,
            phone text,
            email text,
            notes text,
            created_at timestamp default now(),
            created_by int references users(id),
            updated_at timestamp,
            updated_by int references users(id),
            deleted_at timestamp,
            deleted_by int references users(id)
        );`,
	},
	{
		Index:       15,
		Description: "Create table: vehicles.",
		Query: `
        CREATE TABLE IF NOT EXISTS vehicles (
            id serial primary key,
            organization_id int not null references organizations(id),
            branch_id int not null references branches(id),
            plate_no text not null,
            owner_name text,
            vehicle_type text,
            entry_time timestamp not null,
            exit_time timestamp,
            created_at timestamp default now(),
            created_by int references users(id),
            updated_at timestamp,
            updated_by int references users(id),
            deleted_at timestamp,
            deleted_by int references users(id)
        );`,
	},
	{
		Index:       16,
		Description: "Create table: leave_requests.",
		Query: `
        CREATE TABLE IF NOT EXISTS leave_requests (
            id serial primary key,
            user_id int not null references users(id),
            organization_id int not null references organizations(id),
            leave_type text not null,
            start_day date not null,
            end_day date not null,
            reason text,
            status text not null default 'pending',
            reviewed_by int references users(id),
            created_at timestamp default now(),
            created_by int references users(id),
            updated_at timestamp,
            updated_by int references users(id),
            deleted_at timestamp,
            deleted_by int references users(id)
        );`,
	},
}

// Migrate creates the scheme in the database.
func Migrate(db *postgresql.Database) {
	for _, s := range scheme {
		if _, err := db.Query(s.Query); err != nil {
			log.Fatalln("migrate error", s.Description, err)
		}
	}
}
