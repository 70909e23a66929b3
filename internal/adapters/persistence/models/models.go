package models

import (
	"time"

	"lendinghub/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ============================================================
// Catalog & Lending Tables
// ============================================================

// Item represents items table
type Item struct {
	ID         string     `gorm:"type:char(36);primaryKey" json:"id"`
	Title      string     `gorm:"size:255;not null;index" json:"title"`
	Author     string     `gorm:"size:255;not null;index" json:"author"`
	Available  bool       `gorm:"not null;index" json:"available"`
	BorrowerID *string    `gorm:"type:char(36);index" json:"borrower_id"`
	DueDate    *time.Time `gorm:"type:date" json:"due_date"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Item) TableName() string {
	return "items"
}

// User represents users table
type User struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Role      string    `gorm:"size:20;not null;default:'MEMBER'" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Loan represents loans table (permanent lending history)
type Loan struct {
	ID         string     `gorm:"type:char(36);primaryKey" json:"id"`
	ItemID     string     `gorm:"type:char(36);not null;index:idx_loans_item_open,priority:1" json:"item_id"`
	UserID     string     `gorm:"type:char(36);not null;index:idx_loans_user_open,priority:1" json:"user_id"`
	BorrowDate time.Time  `gorm:"type:date;not null" json:"borrow_date"`
	DueDate    time.Time  `gorm:"type:date;not null;index" json:"due_date"`
	ReturnDate *time.Time `gorm:"type:date;index:idx_loans_item_open,priority:2;index:idx_loans_user_open,priority:2" json:"return_date"`
	LateFee    float64    `gorm:"type:decimal(10,2);not null;default:0" json:"late_fee"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (Loan) TableName() string {
	return "loans"
}

// ============================================================
// Domain mapping
// ============================================================

// NewItem builds an items row from a domain item
func NewItem(i *domain.Item) *Item {
	m := &Item{
		ID:        i.ID.String(),
		Title:     i.Title,
		Author:    i.Author,
		Available: i.Available,
		DueDate:   i.DueDate,
	}
	if i.BorrowerID != nil {
		s := i.BorrowerID.String()
		m.BorrowerID = &s
	}
	return m
}

// ToDomain converts the row back to a domain item
func (m *Item) ToDomain() *domain.Item {
	item := &domain.Item{
		ID:        uuid.MustParse(m.ID),
		Title:     m.Title,
		Author:    m.Author,
		Available: m.Available,
	}
	if m.BorrowerID != nil {
		borrower := uuid.MustParse(*m.BorrowerID)
		item.BorrowerID = &borrower
	}
	if m.DueDate != nil {
		due := domain.DateOf(*m.DueDate)
		item.DueDate = &due
	}
	return item
}

// NewUser builds a users row from a domain user
func NewUser(u *domain.User) *User {
	return &User{
		ID:    u.ID.String(),
		Name:  u.Name,
		Email: u.Email,
		Role:  string(u.Role),
	}
}

// ToDomain converts the row back to a domain user
func (m *User) ToDomain() *domain.User {
	return &domain.User{
		ID:    uuid.MustParse(m.ID),
		Name:  m.Name,
		Email: m.Email,
		Role:  domain.Role(m.Role),
	}
}

// NewLoan builds a loans row from a domain loan
func NewLoan(l *domain.Loan) *Loan {
	return &Loan{
		ID:         l.ID.String(),
		ItemID:     l.ItemID.String(),
		UserID:     l.UserID.String(),
		BorrowDate: l.BorrowDate,
		DueDate:    l.DueDate,
		ReturnDate: l.ReturnDate,
		LateFee:    l.LateFee,
	}
}

// ToDomain converts the row back to a domain loan
func (m *Loan) ToDomain() *domain.Loan {
	loan := &domain.Loan{
		ID:         uuid.MustParse(m.ID),
		ItemID:     uuid.MustParse(m.ItemID),
		UserID:     uuid.MustParse(m.UserID),
		BorrowDate: domain.DateOf(m.BorrowDate),
		DueDate:    domain.DateOf(m.DueDate),
		LateFee:    m.LateFee,
	}
	if m.ReturnDate != nil {
		loan.Seal(domain.DateOf(*m.ReturnDate), m.LateFee)
	}
	return loan
}

// AutoMigrate runs auto migration for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Item{},
		&User{},
		&Loan{},
	)
}
