package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/scmexpert/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceData_List(t *testing.T) {
	rm := newFakeRepoManager()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		rm.devices.readings = append(rm.devices.readings, &models.DeviceReading{
			DeviceID:  fmt.Sprintf("11%02d", 50+i%2),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
	}
	s := NewDeviceDataService(nil, rm)

	all, err := s.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all.Readings, DeviceDataLimit)
	assert.Equal(t, []string{"1150", "1151"}, all.DeviceIDs)
	assert.True(t, all.Readings[0].Timestamp.After(all.Readings[1].Timestamp))
	assert.Equal(t, DeviceDataLimit, rm.devices.gotLimit)

	one, err := s.List(context.Background(), " 1151 ")
	require.NoError(t, err)
	assert.Len(t, one.Readings, 30)
	assert.Equal(t, "1151", one.Selected)
	assert.Equal(t, "1151", rm.devices.gotDevice)
}

func TestDeviceData_EmptyAndError(t *testing.T) {
	rm := newFakeRepoManager()
	s := NewDeviceDataService(nil, rm)

	got, err := s.List(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, got.Readings)
	assert.NotNil(t, got.DeviceIDs)

	rm.devices.err = errBoom{}
	_, err = s.List(context.Background(), "")
	assert.ErrorIs(t, err, errBoom{})
}
