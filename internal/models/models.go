package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type SignInType string

const (
	SignInNormal   SignInType = "NORMAL"
	SignInGoogle   SignInType = "GOOGLE_SIGN_IN"
	SignInFacebook SignInType = "FACEBOOK_SIGN_IN"
)

type UserStatus string

const (
	StatusEnabled  UserStatus = "enabled"
	StatusDisabled UserStatus = "disabled"
)

type FileCategory string

const (
	CategoryProjectFile FileCategory = "project_file"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`
	Role         Role               `bson:"role" json:"role"`
	Status       UserStatus         `bson:"status" json:"status"`
	SignInType   SignInType         `bson:"sign_in_type" json:"sign_in_type"`
	Verified     bool               `bson:"verified" json:"verified"`
	FigureCount  int                `bson:"figure_count" json:"figure_count"`
	DateCreated  time.Time          `bson:"date_created" json:"date_created"`
	DateModified time.Time          `bson:"date_modified" json:"date_modified"`
}

// MethodologyPhase is one stage of a project's methodology. Leaves are
// individually patchable through dotted update paths.
type MethodologyPhase struct {
	Status string `bson:"status" json:"status"`
	Notes  string `bson:"notes" json:"notes"`
}

type Methodology struct {
	Planning  MethodologyPhase `bson:"planning" json:"planning"`
	Execution MethodologyPhase `bson:"execution" json:"execution"`
	Review    MethodologyPhase `bson:"review" json:"review"`
}

type Project struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       string             `bson:"user_id" json:"user_id"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description" json:"description"`
	FigureCount  int                `bson:"figure_count" json:"figure_count"`
	AccessList   []string           `bson:"access_list" json:"access_list"`
	Methodology  Methodology        `bson:"methodology" json:"methodology"`
	DateCreated  time.Time          `bson:"date_created" json:"date_created"`
	DateModified time.Time          `bson:"date_modified" json:"date_modified"`
}

type File struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GridFSID       string             `bson:"gridfs_id" json:"gridfs_id"`
	Filename       string             `bson:"filename" json:"filename"`
	UserID         string             `bson:"user_id" json:"user_id"`
	ProjectID      string             `bson:"project_id,omitempty" json:"project_id,omitempty"`
	Group          string             `bson:"group,omitempty" json:"group,omitempty"`
	Category       FileCategory       `bson:"category" json:"category"`
	RestrictAccess bool               `bson:"restrict_access" json:"restrict_access"`
	// DownloadLink is derived from RestrictAccess on every read, never stored.
	DownloadLink string    `bson:"-" json:"download_link"`
	DateCreated  time.Time `bson:"date_created" json:"date_created"`
	DateModified time.Time `bson:"date_modified" json:"date_modified"`
}
