package properties

import "time"

type PropertyCreated struct {
	PropertyID PropertyID
	HostID     string
	At         time.Time
}

func (e PropertyCreated) EventName() string     { return "property.created" }
func (e PropertyCreated) AggregateID() string   { return string(e.PropertyID) }
func (e PropertyCreated) OccurredAt() time.Time { return e.At }

type PropertyUpdated struct {
	PropertyID PropertyID
	At         time.Time
}

func (e PropertyUpdated) EventName() string     { return "property.updated" }
func (e PropertyUpdated) AggregateID() string   { return string(e.PropertyID) }
func (e PropertyUpdated) OccurredAt() time.Time { return e.At }

type PropertyDeleted struct {
	PropertyID PropertyID
	At         time.Time
}

func (e PropertyDeleted) EventName() string     { return "property.deleted" }
func (e PropertyDeleted) AggregateID() string   { return string(e.PropertyID) }
func (e PropertyDeleted) OccurredAt() time.Time { return e.At }
