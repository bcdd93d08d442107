package models

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Origin records who created an identity. Names of import-created identities
// are unique among themselves; provisioned identities are unconstrained.
type Origin string

const (
	OriginProvisioned Origin = "provisioned"
	OriginImport      Origin = "import"
)

type Identity struct {
	BaseUUIDModel
	Username     string  `gorm:"type:varchar(100);not null;uniqueIndex" json:"username"`
	PasswordHash string  `gorm:"type:varchar(255);not null"             json:"-"`
	Role         Role    `gorm:"type:varchar(16);not null;index"        json:"role"`
	DisplayName  *string `gorm:"type:varchar(255)"                      json:"displayName"`
	Email        *string `gorm:"type:varchar(255)"                      json:"email,omitempty"`
	Origin       Origin  `gorm:"type:varchar(16);not null"              json:"origin"`
	IsActive     bool    `gorm:"not null"                               json:"isActive"`
}

func (Identity) TableName() string {
	return "identities"
}

// Name returns the display name, falling back to the username.
func (i Identity) Name() string {
	if i.DisplayName != nil && *i.DisplayName != "" {
		return *i.DisplayName
	}
	return i.Username
}

// DirectoryEntry is the projection the identity resolver scans.
type DirectoryEntry struct {
	ID          string
	DisplayName *string
}
