package objection

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewObjection(t *testing.T) {
	t.Run("raises pending objection", func(t *testing.T) {
		saleID := uuid.New()
		raisedBy := uuid.New()

		o, err := NewObjection(saleID, raisedBy, ObjectionReasonWrongOwner, "customer was mine")
		require.NoError(t, err)
		assert.Equal(t, ObjectionStatusPending, o.Status)
		assert.Equal(t, saleID, o.SaleID)
		assert.Equal(t, raisedBy, o.RaisedBy)
		assert.Nil(t, o.Action)

		events := o.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeObjectionRaised, events[0].EventType())
	})

	t.Run("rejects invalid inputs", func(t *testing.T) {
		_, err := NewObjection(uuid.Nil, uuid.New(), ObjectionReasonOther, "")
		assert.Error(t, err)

		_, err = NewObjection(uuid.New(), uuid.Nil, ObjectionReasonOther, "")
		assert.Error(t, err)

		_, err = NewObjection(uuid.New(), uuid.New(), ObjectionReason("BOGUS"), "")
		assert.Error(t, err)
	})
}

func TestObjection_Resolve(t *testing.T) {
	newPending := func(t *testing.T) *Objection {
		o, err := NewObjection(uuid.New(), uuid.New(), ObjectionReasonWrongOwner, "")
		require.NoError(t, err)
		o.ClearDomainEvents()
		return o
	}

	t.Run("rejects without action", func(t *testing.T) {
		o := newPending(t)
		admin := uuid.New()

		require.NoError(t, o.Resolve(ObjectionStatusRejected, admin, "no evidence", nil, nil))
		assert.Equal(t, ObjectionStatusRejected, o.Status)
		assert.Equal(t, "no evidence", o.AdminNote)
		require.NotNil(t, o.ResolvedBy)
		assert.Equal(t, admin, *o.ResolvedBy)
		assert.NotNil(t, o.ResolvedAt)

		events := o.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeObjectionResolved, events[0].EventType())
	})

	t.Run("accepts with reassignment action", func(t *testing.T) {
		o := newPending(t)
		action := ResolutionActionReassign
		target := uuid.New()

		require.NoError(t, o.Resolve(ObjectionStatusAccepted, uuid.New(), "rightly disputed", &action, &target))
		assert.Equal(t, ObjectionStatusAccepted, o.Status)
		require.NotNil(t, o.Action)
		assert.Equal(t, ResolutionActionReassign, *o.Action)
		require.NotNil(t, o.ReassignTo)
		assert.Equal(t, target, *o.ReassignTo)
	})

	t.Run("reassignment requires a target", func(t *testing.T) {
		o := newPending(t)
		action := ResolutionActionReassign

		err := o.Resolve(ObjectionStatusAccepted, uuid.New(), "", &action, nil)
		assert.Error(t, err)
	})

	t.Run("rejected objections cannot carry an action", func(t *testing.T) {
		o := newPending(t)
		action := ResolutionActionExclude

		err := o.Resolve(ObjectionStatusRejected, uuid.New(), "", &action, nil)
		assert.Error(t, err)
	})

	t.Run("cannot resolve to pending", func(t *testing.T) {
		o := newPending(t)

		err := o.Resolve(ObjectionStatusPending, uuid.New(), "", nil, nil)
		assert.Error(t, err)
	})

	t.Run("cannot resolve twice", func(t *testing.T) {
		o := newPending(t)
		require.NoError(t, o.Resolve(ObjectionStatusRejected, uuid.New(), "", nil, nil))

		err := o.Resolve(ObjectionStatusAccepted, uuid.New(), "", nil, nil)
		assert.Error(t, err)
	})
}
