// Package livox holds the source schema of the converter: the point list
// published by the Livox ROS driver (livox_ros_driver2/msg/CustomMsg).
//
// Messages arrive already decoded by the host. DecodeCustomMsg covers the
// JSON rendition of that shape for tools that read messages from disk.
package livox
