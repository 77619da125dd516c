// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

// Package loghub fans reassembled log entries out to any number of
// live viewers and keeps a bounded replay window for late joiners.
//
// Producers call [Hub.Publish]; it never blocks and never fails. Each
// event gets a hub-wide sequence number starting at 1. Viewers call
// [Hub.RegisterClient] and receive a copy of the retained history plus
// a [Client] whose queue carries every event published afterwards.
//
// Delivery is best-effort per viewer. A viewer whose queue is full
// misses the event (visible as a gap in Seq and in [Client.Dropped]);
// the publisher and every other viewer are unaffected. A viewer that
// calls [Client.Close] is pruned by the next publish.
//
// Live events reach a queue in the order their publishers deliver
// them, which under concurrent publishers is not strictly Seq order.
// A viewer joining the snapshot with its queue filters the live side
// with [Dedup], which drops only what the snapshot already covered.
package loghub
