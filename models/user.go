package models

import "time"

// KYC statuses. Transitions move forward only: unverified -> pending ->
// {verified, rejected}. Once verified a user never silently reverts.
const (
	KYCUnverified = "unverified"
	KYCPending    = "pending"
	KYCVerified   = "verified"
	KYCRejected   = "rejected"
)

// Account names. Every user carries exactly one account per name.
const (
	AccountChecking = "checking"
	AccountSavings  = "savings"
	AccountCredit   = "credit"
)

// User is the aggregate root: one document per user in the "users"
// collection, every sub-collection stored inline as an array.
type User struct {
	ID            string  `json:"id" bson:"_id"`
	Email         string  `json:"email" bson:"email" validate:"required,email"`
	Password      string  `json:"-" bson:"password"`
	Role          string  `json:"role" bson:"role"`
	FirstName     string  `json:"firstName" bson:"firstName"`
	LastName      string  `json:"lastName" bson:"lastName"`
	Phone         string  `json:"phone" bson:"phone"`
	Address       string  `json:"address" bson:"address"`
	City          string  `json:"city" bson:"city"`
	PostalCode    string  `json:"postalCode" bson:"postalCode"`
	Country       string  `json:"country" bson:"country"`
	Dob           string  `json:"dob" bson:"dob"`
	Pob           string  `json:"pob" bson:"pob"`
	Nationality   string  `json:"nationality" bson:"nationality"`
	Profession    string  `json:"profession" bson:"profession"`
	Salary        float64 `json:"salary" bson:"salary"`
	KYCStatus     string  `json:"kycStatus" bson:"kycStatus"`
	EmailVerified bool    `json:"emailVerified" bson:"emailVerified"`

	VerifiedAt *time.Time `json:"verifiedAt" bson:"verifiedAt"`
	RejectedAt *time.Time `json:"rejectedAt" bson:"rejectedAt"`
	CreatedAt  time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt" bson:"updatedAt"`

	Accounts      []Account      `json:"accounts" bson:"accounts"`
	Transactions  []Transaction  `json:"transactions" bson:"transactions"`
	Notifications []Notification `json:"notifications" bson:"notifications"`
	Beneficiaries []Beneficiary  `json:"beneficiaries" bson:"beneficiaries"`
	Budgets       []Budget       `json:"budgets" bson:"budgets"`
	Documents     []Document     `json:"documents" bson:"documents"`
	VirtualCards  []VirtualCard  `json:"virtualCards" bson:"virtualCards"`

	Billing           Billing           `json:"billing" bson:"billing"`
	CardLimits        CardLimits        `json:"cardLimits" bson:"cardLimits"`
	NotificationPrefs NotificationPrefs `json:"notificationPrefs" bson:"notificationPrefs"`
}

type Account struct {
	ID            string  `json:"id" bson:"id"`
	Name          string  `json:"name" bson:"name"`
	AccountNumber string  `json:"accountNumber" bson:"accountNumber"`
	Balance       float64 `json:"balance" bson:"balance"`
	Currency      string  `json:"currency" bson:"currency"`
	Status        string  `json:"status" bson:"status"`
}

type Transaction struct {
	ID          string    `json:"id" bson:"id"`
	AccountID   string    `json:"accountId" bson:"accountId"`
	Amount      float64   `json:"amount" bson:"amount"`
	Currency    string    `json:"currency" bson:"currency"`
	Description string    `json:"description" bson:"description"`
	Category    string    `json:"category" bson:"category"`
	Type        string    `json:"type" bson:"type"` // debit | credit
	Status      string    `json:"status" bson:"status"`
	Date        time.Time `json:"date" bson:"date"`
}

type Notification struct {
	ID       string    `json:"id" bson:"id"`
	Title    string    `json:"title" bson:"title"`
	Message  string    `json:"message" bson:"message"`
	Type     string    `json:"type" bson:"type"`
	Date     time.Time `json:"date" bson:"date"`
	Read     bool      `json:"read" bson:"read"`
	Priority string    `json:"priority" bson:"priority"`
	Category string    `json:"category" bson:"category"`
}

type Beneficiary struct {
	ID       string `json:"id" bson:"id"`
	Name     string `json:"name" bson:"name"`
	IBAN     string `json:"iban" bson:"iban"`
	BIC      string `json:"bic" bson:"bic"`
	Nickname string `json:"nickname" bson:"nickname"`
}

type Budget struct {
	ID       string  `json:"id" bson:"id"`
	Category string  `json:"category" bson:"category"`
	Limit    float64 `json:"limit" bson:"limit"`
	Spent    float64 `json:"spent" bson:"spent"`
	Period   string  `json:"period" bson:"period"`
}

type Document struct {
	ID         string    `json:"id" bson:"id"`
	Name       string    `json:"name" bson:"name"`
	Type       string    `json:"type" bson:"type"`
	URL        string    `json:"url" bson:"url"`
	UploadedAt time.Time `json:"uploadedAt" bson:"uploadedAt"`
}

type VirtualCard struct {
	ID         string    `json:"id" bson:"id"`
	CardNumber string    `json:"cardNumber" bson:"cardNumber"`
	Expiry     string    `json:"expiry" bson:"expiry"`
	Status     string    `json:"status" bson:"status"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}

// Billing carries the user's IBAN data. BillingVisible stays false until the
// user is KYC verified, admin override aside.
type Billing struct {
	BillingIban    string `json:"billingIban" bson:"billingIban"`
	BillingBic     string `json:"billingBic" bson:"billingBic"`
	BillingHolder  string `json:"billingHolder" bson:"billingHolder"`
	BillingText    string `json:"billingText" bson:"billingText"`
	BillingVisible bool   `json:"billingVisible" bson:"billingVisible"`
}

type CardLimits struct {
	Monthly         float64    `json:"monthly" bson:"monthly"`
	Withdrawal      float64    `json:"withdrawal" bson:"withdrawal"`
	CardStatus      string     `json:"cardStatus" bson:"cardStatus"`
	CardType        string     `json:"cardType" bson:"cardType"`
	CardRequestedAt *time.Time `json:"cardRequestedAt" bson:"cardRequestedAt"`
}

type NotificationPrefs struct {
	Email      bool `json:"email" bson:"email"`
	Promotions bool `json:"promotions" bson:"promotions"`
	Security   bool `json:"security" bson:"security"`
}

// Chat is one support conversation per user, keyed by a deterministic id
// derived from the user id so lookup never needs a scan.
type Chat struct {
	ID           string        `json:"id" bson:"_id"`
	UserID       string        `json:"userId" bson:"userId"`
	Participants []string      `json:"participants" bson:"participants"`
	Messages     []ChatMessage `json:"messages" bson:"messages"`
	CreatedAt    time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt" bson:"updatedAt"`
}

type ChatMessage struct {
	ID        string    `json:"id" bson:"id"`
	Text      string    `json:"text" bson:"text"`
	Sender    string    `json:"sender" bson:"sender"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}
