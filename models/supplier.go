package models

type Supplier struct {
	Id          uint   `json:"id" gorm:"primaryKey"`
	CompanyName string `json:"company_name" gorm:"not null;unique"`
	NIT         string `json:"nit" gorm:"null"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Department  string `json:"department"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
}
