package reconcile

import "fmt"

// UserSpec is the field specification every user document must satisfy.
// Defaults are deterministic: factories only derive values from the document
// id, so re-running a migration can never invent new data.
func UserSpec() Spec {
	return Spec{
		Fields: []Field{
			{Name: "uid", Kind: KindString, DefaultFunc: func(docID string) interface{} { return docID }},
			{Name: "email", Kind: KindString, Default: ""},
			{Name: "role", Kind: KindString, Default: "user"},
			{Name: "firstName", Kind: KindString, Default: ""},
			{Name: "lastName", Kind: KindString, Default: ""},
			{Name: "phone", Kind: KindString, Default: ""},
			{Name: "address", Kind: KindString, Default: ""},
			{Name: "city", Kind: KindString, Default: ""},
			{Name: "postalCode", Kind: KindString, Default: ""},
			{Name: "country", Kind: KindString, Default: ""},
			{Name: "dob", Kind: KindString, Default: ""},
			{Name: "pob", Kind: KindString, Default: ""},
			{Name: "nationality", Kind: KindString, Default: ""},
			{Name: "profession", Kind: KindString, Default: ""},
			{Name: "salary", Kind: KindNumber, Default: float64(0)},
			{Name: "kycStatus", Kind: KindString, Default: "unverified"},
			{Name: "emailVerified", Kind: KindBool, Default: false},
			{Name: "verifiedAt", Kind: KindTimestamp, Nullable: true, Default: nil},
			{Name: "rejectedAt", Kind: KindTimestamp, Nullable: true, Default: nil},

			{Name: "accounts", Kind: KindArray, Members: []Member{
				accountMember("checking"),
				accountMember("savings"),
				accountMember("credit"),
			}},
			{Name: "transactions", Kind: KindArray, Default: []interface{}{}},
			{Name: "notifications", Kind: KindArray, Default: []interface{}{}},
			{Name: "beneficiaries", Kind: KindArray, Default: []interface{}{}},
			{Name: "budgets", Kind: KindArray, Default: []interface{}{}},
			{Name: "documents", Kind: KindArray, Default: []interface{}{}},
			{Name: "virtualCards", Kind: KindArray, Default: []interface{}{}},

			{Name: "billing", Kind: KindObject, SubKeys: []SubKey{
				{Name: "billingIban", Default: ""},
				{Name: "billingBic", Default: ""},
				{Name: "billingHolder", Default: ""},
				{Name: "billingText", Default: ""},
				{Name: "billingVisible", Default: false},
			}},
			{Name: "cardLimits", Kind: KindObject, SubKeys: []SubKey{
				{Name: "monthly", Default: float64(2000)},
				{Name: "withdrawal", Default: float64(500)},
				{Name: "cardStatus", Default: "none"},
				{Name: "cardType", Default: "standard"},
				{Name: "cardRequestedAt", Nullable: true, Default: nil},
			}},
			{Name: "notificationPrefs", Kind: KindObject, SubKeys: []SubKey{
				{Name: "email", Default: true},
				{Name: "promotions", Default: false},
				{Name: "security", Default: true},
			}},
		},
		Lifts: []Lift{
			// Root-level billing scalars left behind by an early schema.
			{From: "billingIban", ToField: "billing", ToKey: "billingIban"},
			{From: "billingBic", ToField: "billing", ToKey: "billingBic"},
			{From: "billingHolder", ToField: "billing", ToKey: "billingHolder"},
			{From: "billingText", ToField: "billing", ToKey: "billingText"},
			// Legacy duplicates of the canonical status fields.
			{From: "verificationStatus", ToField: "kycStatus"},
			{From: "isEmailVerified", ToField: "emailVerified"},
		},
	}
}

func accountMember(name string) Member {
	return Member{
		Name: name,
		Make: func(docID string) map[string]interface{} {
			return map[string]interface{}{
				"id":            fmt.Sprintf("%s_%s", docID, name),
				"name":          name,
				"accountNumber": "",
				"balance":       float64(0),
				"currency":      "EUR",
				"status":        "active",
			}
		},
	}
}
