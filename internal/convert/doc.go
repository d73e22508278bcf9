// Package convert turns messages of one schema into another.
//
// LivoxToPointCloud is the only transform: it packs a Livox CustomMsg into a
// foxglove.PointCloud buffer. Registry models the host side, which is handed
// converter functions once at startup and then invokes them one message at a
// time.
package convert
