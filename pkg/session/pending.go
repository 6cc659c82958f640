// Copyright © 2024 Rak Laptudirm <rak@laptudirm.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package session

import (
	"context"

	"laptudirm.com/x/versus/pkg/games"
)

// Reply is the outcome of a background recommendation.
type Reply struct {
	// Ply is the number of moves played when the request was made.
	Ply int

	Move games.Move
	Err  error
}

// Pending is a recommendation running in the background.
type Pending struct {
	reply  chan Reply
	cancel context.CancelFunc

	// finished is closed once the request's goroutine has returned.
	finished chan struct{}
}

// RequestAsync starts a recommendation for the current position in a
// new goroutine. The goroutine only sees a snapshot of the game, so the
// session may keep being read while the request is pending; the reply
// must be applied with Resolve on the goroutine which owns the session.
func (session *Session) RequestAsync(ctx context.Context) *Pending {
	ctx, cancel := context.WithCancel(ctx)

	pending := &Pending{
		reply:  make(chan Reply, 1),
		cancel: cancel,

		finished: make(chan struct{}),
	}

	position := session.Position()
	recommender, limit := session.recommender, session.limit

	go func() {
		defer close(pending.finished)
		defer cancel()

		mov, err := recommender.Recommend(ctx, position, limit)
		pending.reply <- Reply{Ply: len(position.Moves), Move: mov, Err: err}
	}()

	return pending
}

// Done returns a channel which receives the reply once it is ready.
// Exactly one reply is ever sent.
func (pending *Pending) Done() <-chan Reply {
	return pending.reply
}

// Cancel stops the request and waits for its goroutine to return, so
// that the recommender is idle afterwards. A reply, carrying the context's
// error, is still delivered on Done.
func (pending *Pending) Cancel() {
	pending.cancel()
	<-pending.finished
}

// Resolve applies a reply received from a Pending request. Replies made
// for an earlier position are rejected.
func (session *Session) Resolve(reply Reply) (games.Move, error) {
	if reply.Err != nil {
		return games.Move{}, reply.Err
	}

	if reply.Ply != len(session.moves) {
		return games.Move{}, ErrStaleReply
	}

	return reply.Move, session.Apply(reply.Move)
}
