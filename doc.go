/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package fabricnetwork enables Go developers to submit and evaluate transactions on a
// Hyperledger Fabric network using the 'Gateway' programming model.
//
// Packages for end developer usage
//
// pkg/gateway: The entry point. A Gateway is connected with a channel client and an identity
// and hands out Networks (channels) and Contracts (chaincodes).
//
// pkg/client/event/strategy: Event strategies that decide when a submitted transaction is
// considered committed. Custom strategies can be expressed as boolean expressions.
//
// pkg/client/query: Query handlers that evaluate transactions on one peer at a time and
// fail over to the next peer when a peer is unavailable.
//
// Basic workflow
//
//      1) Connect a gateway, optionally with a configuration (see pkg/core/config).
//      2) Get a network for a channel name. The network is initialized once and shared.
//      3) Get a contract for a chaincode name from the network.
//      4) Submit or evaluate transactions on the contract.
//      5) Call Gateway.Close() to disconnect the event sources.
//
package fabricnetwork
