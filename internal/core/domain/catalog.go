package domain

import "time"

// Record is satisfied by pointers to persisted rows keyed by a string id.
type Record[T any] interface {
	*T
	GetID() string
	SetID(id string)
}

// CenterRecord is a row owned by a center; writes pass the ownership gate.
type CenterRecord[T any] interface {
	Record[T]
	GetCenterID() string
}

// Class is a scheduled group session at a center.
type Class struct {
	ID          string    `json:"id"          gorm:"type:uuid;primaryKey"`
	CenterID    string    `json:"centerId"    gorm:"type:uuid;not null;index" validate:"required,uuid"`
	TrainerID   *string   `json:"trainerId"   gorm:"type:uuid"                validate:"omitempty,uuid"`
	Name        string    `json:"name"        gorm:"size:120;not null"        validate:"required,max=120"`
	Description string    `json:"description" gorm:"size:1000"                validate:"max=1000"`
	StartsAt    time.Time `json:"startsAt"    gorm:"not null"                 validate:"required"`
	DurationMin int       `json:"durationMin" gorm:"not null"                 validate:"required,gt=0,lte=480"`
	Capacity    int       `json:"capacity"    gorm:"not null"                 validate:"required,gt=0"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Center  *Center `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Trainer *User   `json:"-" gorm:"foreignKey:TrainerID;constraint:OnDelete:SET NULL"`
}

func (c *Class) GetID() string       { return c.ID }
func (c *Class) SetID(id string)     { c.ID = id }
func (c *Class) GetCenterID() string { return c.CenterID }

// MachineStatus is the service state of a machine.
type MachineStatus string

const (
	MachineOperational MachineStatus = "operational"
	MachineMaintenance MachineStatus = "maintenance"
	MachineOutOfOrder  MachineStatus = "out_of_order"
)

// Machine is a piece of equipment at a center.
type Machine struct {
	ID        string        `json:"id"       gorm:"type:uuid;primaryKey"`
	CenterID  string        `json:"centerId" gorm:"type:uuid;not null;index"         validate:"required,uuid"`
	Name      string        `json:"name"     gorm:"size:120;not null"                validate:"required,max=120"`
	Kind      string        `json:"kind"     gorm:"size:60"                          validate:"max=60"`
	Status    MachineStatus `json:"status"   gorm:"size:20;not null;default:operational" validate:"omitempty,oneof=operational maintenance out_of_order"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`

	Center *Center `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (m *Machine) GetID() string       { return m.ID }
func (m *Machine) SetID(id string)     { m.ID = id }
func (m *Machine) GetCenterID() string { return m.CenterID }

// TicketStatus is the workflow state of an incident ticket.
type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in_progress"
	TicketClosed     TicketStatus = "closed"
)

// Ticket is an incident report raised at a center, optionally about a machine.
type Ticket struct {
	ID          string       `json:"id"          gorm:"type:uuid;primaryKey"`
	CenterID    string       `json:"centerId"    gorm:"type:uuid;not null;index" validate:"required,uuid"`
	MachineID   *string      `json:"machineId"   gorm:"type:uuid"                validate:"omitempty,uuid"`
	ReporterID  string       `json:"reporterId"  gorm:"type:uuid;not null"`
	Title       string       `json:"title"       gorm:"size:160;not null"        validate:"required,max=160"`
	Description string       `json:"description" gorm:"size:2000"                validate:"max=2000"`
	Status      TicketStatus `json:"status"      gorm:"size:20;not null;default:open" validate:"omitempty,oneof=open in_progress closed"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`

	Center   *Center  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Machine  *Machine `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	Reporter *User    `json:"-" gorm:"foreignKey:ReporterID;constraint:OnDelete:CASCADE"`
}

func (t *Ticket) GetID() string       { return t.ID }
func (t *Ticket) SetID(id string)     { t.ID = id }
func (t *Ticket) GetCenterID() string { return t.CenterID }

// Membership is a member's subscription at a center.
type Membership struct {
	ID        string    `json:"id"       gorm:"type:uuid;primaryKey"`
	CenterID  string    `json:"centerId" gorm:"type:uuid;not null;index" validate:"required,uuid"`
	UserID    string    `json:"userId"   gorm:"type:uuid;not null;index" validate:"required,uuid"`
	Plan      string    `json:"plan"     gorm:"size:60;not null"         validate:"required,max=60"`
	StartsAt  time.Time `json:"startsAt" gorm:"not null"                 validate:"required"`
	EndsAt    time.Time `json:"endsAt"   gorm:"not null"                 validate:"required,gtfield=StartsAt"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Center *Center `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	User   *User   `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (m *Membership) GetID() string       { return m.ID }
func (m *Membership) SetID(id string)     { m.ID = id }
func (m *Membership) GetCenterID() string { return m.CenterID }

// ActiveAt reports whether the membership covers t.
func (m *Membership) ActiveAt(t time.Time) bool {
	return !t.Before(m.StartsAt) && t.Before(m.EndsAt)
}
