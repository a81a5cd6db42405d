package user

import (
	"time"

	"github.com/google/uuid"
)

// Sex represents the user's registered sex.
type Sex string

const (
	SexMale   Sex = "MALE"
	SexFemale Sex = "FEMALE"
)

// IsValid checks if the value is a known sex.
func (s Sex) IsValid() bool {
	return s == SexMale || s == SexFemale
}

// Role represents the user's role.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// BirthSlot is one of the twelve traditional two-hour birth-time slots,
// or Unknown when the user does not know their birth hour.
type BirthSlot string

const (
	BirthSlotJa      BirthSlot = "JA"   // 23:00-01:00
	BirthSlotChuk    BirthSlot = "CHUK" // 01:00-03:00
	BirthSlotIn      BirthSlot = "IN"   // 03:00-05:00
	BirthSlotMyo     BirthSlot = "MYO"  // 05:00-07:00
	BirthSlotJin     BirthSlot = "JIN"  // 07:00-09:00
	BirthSlotSa      BirthSlot = "SA"   // 09:00-11:00
	BirthSlotO       BirthSlot = "O"    // 11:00-13:00
	BirthSlotMi      BirthSlot = "MI"   // 13:00-15:00
	BirthSlotSin     BirthSlot = "SIN"  // 15:00-17:00
	BirthSlotYu      BirthSlot = "YU"   // 17:00-19:00
	BirthSlotSul     BirthSlot = "SUL"  // 19:00-21:00
	BirthSlotHae     BirthSlot = "HAE"  // 21:00-23:00
	BirthSlotUnknown BirthSlot = "UNKNOWN"
)

var birthSlots = map[BirthSlot]bool{
	BirthSlotJa: true, BirthSlotChuk: true, BirthSlotIn: true, BirthSlotMyo: true,
	BirthSlotJin: true, BirthSlotSa: true, BirthSlotO: true, BirthSlotMi: true,
	BirthSlotSin: true, BirthSlotYu: true, BirthSlotSul: true, BirthSlotHae: true,
	BirthSlotUnknown: true,
}

// IsValid checks if the slot is a known birth slot.
func (b BirthSlot) IsValid() bool {
	return birthSlots[b]
}

// BirthInfo holds the birth facts the generation prompts are built from.
type BirthInfo struct {
	BirthYear  int       `json:"birth_year" gorm:"column:birth_year"`
	BirthMonth int       `json:"birth_month" gorm:"column:birth_month"`
	BirthDay   int       `json:"birth_day" gorm:"column:birth_day"`
	BirthSlot  BirthSlot `json:"birth_slot" gorm:"column:birth_slot"`
}

// Validate checks the birth facts for plausibility.
func (b BirthInfo) Validate() error {
	if b.BirthYear < 1900 || b.BirthYear > time.Now().Year() {
		return ErrInvalidBirthInfo
	}
	if b.BirthMonth < 1 || b.BirthMonth > 12 {
		return ErrInvalidBirthInfo
	}
	if b.BirthDay < 1 || b.BirthDay > 31 {
		return ErrInvalidBirthInfo
	}
	if !b.BirthSlot.IsValid() {
		return ErrInvalidBirthInfo
	}
	return nil
}

// User represents a registered user. Email and role are immutable after
// creation; name and birth facts may be updated.
type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"not null"`
	Sex       Sex       `json:"sex" gorm:"not null"`
	Role      Role      `json:"role" gorm:"default:USER"`
	BirthInfo BirthInfo `json:"birth_info" gorm:"embedded"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

// TableName returns the database table name.
func (User) TableName() string {
	return "users"
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
