package main

import (
	"testing"
	"time"

	"github.com/gabapcia/medchain/internal/config"
	"github.com/gabapcia/medchain/internal/txsim"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatorOptions(t *testing.T) {
	seed := uint64(7)
	cfg := config.Simulator{
		ChainID:              "0x539",
		NetworkID:            1337,
		NetworkName:          "Ganache",
		GasPrice:             1,
		MaxPriorityFeePerGas: 2,
		MaxFeePerGas:         3,
		ConfirmationMinDelay: 0,
		ConfirmationMaxDelay: time.Millisecond,
		Seed:                 &seed,
	}

	sim := txsim.New(simulatorOptions(cfg)...)
	info := sim.NetworkInfo()

	assert.Equal(t, txsim.Network{ChainID: "0x539", NetworkID: 1337, Name: "Ganache"}, info.Network)
	assert.Equal(t, txsim.FeeSchedule{GasPrice: 1, MaxPriorityFeePerGas: 2, MaxFeePerGas: 3}, info.FeeSchedule)

	tx, err := sim.SubmitTransaction(t.Context(), txsim.ActionVerifyDrug, nil, "", "")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), tx.GasPrice)
}

func TestBuildNotifiers(t *testing.T) {
	t.Run("should build nothing without sinks", func(t *testing.T) {
		notifiers, closers, err := buildNotifiers(t.Context(), config.Notify{}, false)
		require.NoError(t, err)

		assert.Empty(t, notifiers)
		assert.Empty(t, closers)
	})

	t.Run("should build kafka and webhook sinks", func(t *testing.T) {
		notifiers, closers, err := buildNotifiers(t.Context(), config.Notify{
			KafkaBrokers: []string{"localhost:9092"},
			WebhookURL:   "http://localhost:8080/hook",
		}, true)
		require.NoError(t, err)

		assert.Len(t, notifiers, 2)
		require.Len(t, closers, 1)
		assert.NoError(t, closers[0].Close())
	})
}
