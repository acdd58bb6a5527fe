package idgen

import (
	"github.com/fundwit/go-commons/types"
	"github.com/sirupsen/logrus"
	"github.com/sony/sonyflake"
)

// NewWorker derives the machine id from the private ip, machine 1 when the
// host has none.
func NewWorker() *sonyflake.Sonyflake {
	if worker := sonyflake.NewSonyflake(sonyflake.Settings{}); worker != nil {
		return worker
	}
	logrus.Warn("no private ip found, id worker falls back to machine id 1")
	return sonyflake.NewSonyflake(sonyflake.Settings{MachineID: func() (uint16, error) { return 1, nil }})
}

// NextID panics when the worker is exhausted or misconfigured.
func NextID(idWorker *sonyflake.Sonyflake) types.ID {
	id, err := idWorker.NextID()
	if err != nil {
		panic(err)
	}
	return types.ID(id)
}
