package models

import (
	"time"
)

// Company represents the companies table.
type Company struct {
	ID        uint      `gorm:"primaryKey;column:id" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(150);not null" json:"name"`
	Code      string    `gorm:"column:code;type:varchar(20);not null;uniqueIndex" json:"code"`
	Address   string    `gorm:"column:address;type:text" json:"address"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName specifies the table name for Company
func (Company) TableName() string {
	return "companies"
}

// Division represents the divisions table.
type Division struct {
	ID        uint      `gorm:"primaryKey;column:id" json:"id"`
	CompanyID uint      `gorm:"column:company_id;not null;index" json:"company_id"`
	Name      string    `gorm:"column:name;type:varchar(150);not null" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName specifies the table name for Division
func (Division) TableName() string {
	return "divisions"
}

// Department represents the departments table.
type Department struct {
	ID         uint      `gorm:"primaryKey;column:id" json:"id"`
	DivisionID uint      `gorm:"column:division_id;not null;index" json:"division_id"`
	Name       string    `gorm:"column:name;type:varchar(150);not null" json:"name"`
	CreatedAt  time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName specifies the table name for Department
func (Department) TableName() string {
	return "departments"
}

// Factory represents the factories table. PR numbering is scoped per factory;
// its row is the lock target for the monthly sequence.
type Factory struct {
	ID        uint      `gorm:"primaryKey;column:id" json:"id"`
	CompanyID uint      `gorm:"column:company_id;not null;index" json:"company_id"`
	Name      string    `gorm:"column:name;type:varchar(150);not null" json:"name"`
	Code      string    `gorm:"column:code;type:varchar(20);not null" json:"code"`
	Location  string    `gorm:"column:location;type:varchar(255)" json:"location"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName specifies the table name for Factory
func (Factory) TableName() string {
	return "factories"
}

// Vendor represents the vendors table.
type Vendor struct {
	ID            uint      `gorm:"primaryKey;column:id" json:"id"`
	CompanyID     uint      `gorm:"column:company_id;not null;index" json:"company_id"`
	Name          string    `gorm:"column:name;type:varchar(150);not null" json:"name"`
	Email         string    `gorm:"column:email;type:varchar(255);not null" json:"email"`
	Phone         string    `gorm:"column:phone;type:varchar(20)" json:"phone"`
	Address       string    `gorm:"column:address;type:text" json:"address"`
	GSTNumber     string    `gorm:"column:gst_number;type:varchar(30)" json:"gst_number"`
	ContactPerson string    `gorm:"column:contact_person;type:varchar(150)" json:"contact_person"`
	Rating        float64   `gorm:"column:rating;type:numeric(3,1);default:0" json:"rating"`
	IsActive      bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt     time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName specifies the table name for Vendor
func (Vendor) TableName() string {
	return "vendors"
}

// Material represents the materials table.
type Material struct {
	ID          uint      `gorm:"primaryKey;column:id" json:"id"`
	CompanyID   uint      `gorm:"column:company_id;not null;index" json:"company_id"`
	ItemCode    string    `gorm:"column:item_code;type:varchar(50);not null;uniqueIndex" json:"item_code"`
	Name        string    `gorm:"column:name;type:varchar(150);not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Unit        string    `gorm:"column:unit;type:varchar(20);not null" json:"unit"`
	CreatedAt   time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName specifies the table name for Material
func (Material) TableName() string {
	return "materials"
}
