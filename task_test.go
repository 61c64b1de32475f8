// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package taskpool_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/taskpool"
)

func TestTaskEmptyInvokeFails(t *testing.T) {
	var task taskpool.Task
	if !task.Empty() {
		t.Fatal("zero-value Task: want Empty() == true")
	}
	if err := task.Invoke(0); !errors.Is(err, taskpool.ErrEmptyCallable) {
		t.Fatalf("Invoke on empty Task: got %v, want ErrEmptyCallable", err)
	}
}

func TestTaskInvokeRecoversPanic(t *testing.T) {
	ran := false
	task := taskpool.NewTask(func(workerID int) {
		ran = true
		panic("boom")
	})
	if task.Empty() {
		t.Fatal("want non-empty Task")
	}
	if err := task.Invoke(7); err != nil {
		t.Fatalf("Invoke: want nil error (panic contained), got %v", err)
	}
	if !ran {
		t.Fatal("callable did not run")
	}
}

func TestTaskInvokeDeliversWorkerID(t *testing.T) {
	var got int
	task := taskpool.NewTask(func(workerID int) { got = workerID })
	if err := task.Invoke(3); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if got != 3 {
		t.Fatalf("worker id: got %d, want 3", got)
	}
}
