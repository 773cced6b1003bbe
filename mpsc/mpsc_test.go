// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mpsc_test

import (
	"errors"
	"sync"
	"testing"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/nbchan/internal/racedetect"
	"code.hybscloud.com/nbchan/mpsc"
)

func TestSendRecvBasic(t *testing.T) {
	tx, rx := mpsc.New[int]()

	for i := range 10 {
		if err := tx.Send(i); err != nil {
			t.Fatalf("Send(%d): %v", i, err)
		}
	}

	for i := range 10 {
		v, err := rx.TryRecv()
		if err != nil {
			t.Fatalf("TryRecv(%d): %v", i, err)
		}
		if v != i {
			t.Fatalf("TryRecv(%d): got %d, want %d", i, v, i)
		}
	}

	if _, err := rx.TryRecv(); !mpsc.IsEmpty(err) {
		t.Fatalf("TryRecv on drained channel: got %v, want ErrEmpty", err)
	}
}

func TestSendAfterReceiverDropped(t *testing.T) {
	tx, rx := mpsc.New[int]()
	rx.Close()

	err := tx.Send(1)
	if !mpsc.IsDisconnected(err) {
		t.Fatalf("Send after Receiver.Close: got %v, want Disconnected", err)
	}
	var se *mpsc.SendError[int]
	if !errors.As(err, &se) || se.Item != 1 {
		t.Fatalf("SendError: got %#v, want Item=1", err)
	}
}

func TestRecvDisconnectedOnlyAfterDrain(t *testing.T) {
	tx, rx := mpsc.New[int]()
	tx.Send(1)
	tx.Send(2)
	tx.Close()

	// Items enqueued before every Sender closed must still be observed.
	if v, err := rx.TryRecv(); err != nil || v != 1 {
		t.Fatalf("first TryRecv: got (%d, %v), want (1, nil)", v, err)
	}
	if v, err := rx.TryRecv(); err != nil || v != 2 {
		t.Fatalf("second TryRecv: got (%d, %v), want (2, nil)", v, err)
	}
	if _, err := rx.TryRecv(); !mpsc.IsDisconnected(err) {
		t.Fatalf("third TryRecv: got %v, want Disconnected", err)
	}
}

func TestCloneSendersAllMustCloseForDisconnect(t *testing.T) {
	tx, rx := mpsc.New[int]()
	clone := tx.Clone()
	tx.Close()

	if _, err := rx.TryRecv(); !mpsc.IsEmpty(err) {
		t.Fatalf("TryRecv with one clone still live: got %v, want Empty", err)
	}

	clone.Close()
	if _, err := rx.TryRecv(); !mpsc.IsDisconnected(err) {
		t.Fatalf("TryRecv after last clone closed: got %v, want Disconnected", err)
	}
}

func TestSyncSenderFullAtCapacity(t *testing.T) {
	tx, rx := mpsc.NewSync[int](1)

	if err := tx.TrySend(1); err != nil {
		t.Fatalf("TrySend(1): %v", err)
	}
	err := tx.TrySend(2)
	if !mpsc.IsFull(err) {
		t.Fatalf("TrySend(2) at capacity: got %v, want Full", err)
	}
	var tse *mpsc.TrySendError[int]
	if !errors.As(err, &tse) || tse.Item != 2 {
		t.Fatalf("TrySendError: got %#v, want Item=2", err)
	}

	v, err := rx.TryRecv()
	if err != nil || v != 1 {
		t.Fatalf("TryRecv: got (%d, %v), want (1, nil)", v, err)
	}

	if err := tx.TrySend(3); err != nil {
		t.Fatalf("TrySend(3) after drain: %v", err)
	}
}

func TestSyncSenderDisconnected(t *testing.T) {
	tx, rx := mpsc.NewSync[int](4)
	rx.Close()

	err := tx.TrySend(1)
	if !mpsc.IsDisconnected(err) {
		t.Fatalf("TrySend after Receiver.Close: got %v, want Disconnected", err)
	}
	if mpsc.IsFull(err) {
		t.Fatal("TrySend after Receiver.Close: got Full, want Disconnected only")
	}
}

func TestManyProducersStress(t *testing.T) {
	if racedetect.Enabled {
		t.Skip("lock-free tail CAS ordering is invisible to the race detector")
	}

	const producers = 100
	const perProducer = 1000

	tx, rx := mpsc.New[int]()

	var wg sync.WaitGroup
	for p := range producers {
		wg.Add(1)
		clone := tx.Clone()
		go func(id int) {
			defer wg.Done()
			defer clone.Close()
			for i := range perProducer {
				clone.Send(id*perProducer + i)
			}
		}(p)
	}
	tx.Close()

	received := 0
	backoff := iox.Backoff{}
	for {
		_, err := rx.TryRecv()
		if err == nil {
			received++
			backoff.Reset()
			continue
		}
		if mpsc.IsDisconnected(err) {
			break
		}
		backoff.Wait()
	}
	wg.Wait()

	if received != producers*perProducer {
		t.Fatalf("received: got %d, want %d", received, producers*perProducer)
	}
}
