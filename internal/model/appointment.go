package model

type AppointmentStatus string

const (
	AppointmentStatusConfirmed AppointmentStatus = "Confirmed"
	AppointmentStatusPending   AppointmentStatus = "Pending"
	AppointmentStatusCancelled AppointmentStatus = "Cancelled"
)

// SampleAppointment is QA helper data shown next to the booking form.
type SampleAppointment struct {
	ID     string            `yaml:"id" json:"id"`
	Doctor string            `yaml:"doctor" json:"doctor"`
	Date   string            `yaml:"date" json:"date"`
	Time   string            `yaml:"time" json:"time"`
	Status AppointmentStatus `yaml:"status" json:"status"`
}

// SamplePrescription is QA helper data shown next to the booking form.
type SamplePrescription struct {
	ID      string `yaml:"id" json:"id"`
	Product string `yaml:"product" json:"product"`
	Dose    string `yaml:"dose" json:"dose"`
	Refills int    `yaml:"refills" json:"refills"`
}
