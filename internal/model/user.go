package model

import "time"

// User represents an application account as stored in the `users`
// table. Each field corresponds to a column in the database. The
// json tags are omitted here because these structs are primarily
// used internally by the repository layer; handlers define
// separate response types with appropriate JSON tags.
//
// Quota bookkeeping (UsageQuota, RequestCount, LastRequestAt) is
// read-then-written by the middleware without locking; the
// service-plan limits that matter for correctness (API key count)
// are enforced transactionally in the repository layer instead.
//
// Fields:
//  ID            – primary key identifier of the user.
//  Username      – unique login name (letters, digits, underscore).
//  Email         – contact email address.
//  PasswordHash  – bcrypt hashed password.
//  IsActive      – whether the account is active.
//  Tier          – name of the service tier (mirrors the plan name).
//  ServicePlanID – foreign key into the service_plans table.
//  UsageQuota    – remaining request quota for the current window.
//  RequestCount  – number of requests made so far.
//  LastRequestAt – timestamp of the most recent request (null until first use).
//  APIKey        – legacy per-user UUID key kept from the first schema revision.
//  CreatedAt     – timestamp of creation.
//  UpdatedAt     – timestamp of last update.
type User struct {
	ID            uint64     // users.id
	Username      string     // users.username
	Email         string     // users.email
	PasswordHash  string     // users.password_hash
	IsActive      bool       // users.is_active
	Tier          string     // users.tier
	ServicePlanID uint64     // users.service_plan_id
	UsageQuota    int        // users.usage_quota
	RequestCount  int        // users.request_count
	LastRequestAt *time.Time // users.last_request_at (nullable)
	APIKey        string     // users.api_key (uuid)
	CreatedAt     time.Time  // users.created_at
	UpdatedAt     time.Time  // users.updated_at
}

// ServicePlan represents a row in the `service_plans` table. A
// plan bounds how many active API keys a user may hold and how
// many requests they may make. Users reference a plan through
// ServicePlanID.
//
// Fields:
//  ID           – numeric identifier of the plan.
//  Name         – unique plan name (e.g. free, pro).
//  MaxAPIKeys   – maximum number of active API keys per user.
//  RequestQuota – request allowance granted by the plan.
type ServicePlan struct {
	ID           uint64 // service_plans.id
	Name         string // service_plans.name
	MaxAPIKeys   int    // service_plans.max_api_keys
	RequestQuota int    // service_plans.request_quota
}

// ArchivedUser is a frozen copy of a user row taken when the
// account is deactivated. Rows in `archived_users` are write-once;
// nothing in the system updates or deletes them.
//
// Fields:
//  ID         – primary key identifier of the archive row.
//  UserID     – id the user had in the users table.
//  Username   – login name at archive time.
//  Email      – email at archive time.
//  Tier       – service tier at archive time.
//  ArchivedAt – when the snapshot was taken.
type ArchivedUser struct {
	ID         uint64    // archived_users.id
	UserID     uint64    // archived_users.user_id
	Username   string    // archived_users.username
	Email      string    // archived_users.email
	Tier       string    // archived_users.tier
	ArchivedAt time.Time // archived_users.archived_at
}
