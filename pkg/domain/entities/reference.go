package entities

// Severity classifies how serious a defect type is
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityMajor    Severity = "Major"
	SeverityMinor    Severity = "Minor"
)

// ProductionLine identifies a physical line on the factory floor
type ProductionLine struct {
	ID         int64
	Name       string
	Department string
}

// DefectType is a quality-log defect classification
type DefectType struct {
	ID       int64
	Code     string
	Name     string
	Severity Severity
}

// Customer is a shipping destination account
type Customer struct {
	ID     int64
	Name   string
	Region string
}
