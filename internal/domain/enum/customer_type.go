package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// CustomerType distinguishes counter customers from those served by delivery
type CustomerType string

const (
	CustomerTypeWalkIn   CustomerType = "walk-in"
	CustomerTypeDelivery CustomerType = "delivery"
)

func (t CustomerType) String() string {
	return string(t)
}

// IsValid reports whether t is one of the known customer types
func (t CustomerType) IsValid() bool {
	return t == CustomerTypeWalkIn || t == CustomerTypeDelivery
}

func (t CustomerType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *CustomerType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*t = CustomerType(str)
	return nil
}

func (t CustomerType) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *CustomerType) Scan(value interface{}) error {
	if value == nil {
		*t = CustomerTypeWalkIn
		return nil
	}
	switch v := value.(type) {
	case string:
		*t = CustomerType(v)
	case []byte:
		*t = CustomerType(string(v))
	}
	return nil
}
