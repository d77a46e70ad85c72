// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"encoding/json"
	"fmt"

	"github.com/poiesic/bazaar/core"
)

// MarshalListing serializes a Listing to bytes.
func MarshalListing(listing *core.Listing) ([]byte, error) {
	data, err := json.Marshal(listing)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalListing deserializes a Listing from bytes.
func UnmarshalListing(data []byte) (*core.Listing, error) {
	var listing core.Listing
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &listing, nil
}

// MarshalTicket serializes an EscalationTicket to bytes.
func MarshalTicket(ticket *core.EscalationTicket) ([]byte, error) {
	data, err := json.Marshal(ticket)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalTicket deserializes an EscalationTicket from bytes.
func UnmarshalTicket(data []byte) (*core.EscalationTicket, error) {
	var ticket core.EscalationTicket
	if err := json.Unmarshal(data, &ticket); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &ticket, nil
}
