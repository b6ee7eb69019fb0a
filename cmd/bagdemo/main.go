// Command bagdemo writes a small bag with two connections, closes it, then
// reopens it with the reader and prints a summary. Run it with a directory
// argument that does not already exist:
//
//	go run ./cmd/bagdemo /tmp/demo-bag
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/rosbaglib/bagcore"
	"github.com/rosbaglib/bagcore/cdr"
	"github.com/rosbaglib/bagcore/endian"
	"github.com/rosbaglib/bagcore/format"
	"github.com/rosbaglib/bagcore/writer"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: %s <new-bag-directory>", os.Args[0])
	}

	dir := os.Args[1]

	if err := write(dir); err != nil {
		log.Fatalf("write: %v", err)
	}

	if err := read(dir); err != nil {
		log.Fatalf("read: %v", err)
	}
}

func write(dir string) error {
	w, err := bagcore.Create(dir, writer.WithCompression(format.CompressionModeMessage, format.CompressionFormatZstd))
	if err != nil {
		return err
	}

	imu, err := w.AddConnection("/imu/data", "sensor_msgs/msg/Imu")
	if err != nil {
		return err
	}

	odom, err := w.AddConnection("/odom", "nav_msgs/msg/Odometry")
	if err != nil {
		return err
	}

	for i := uint64(0); i < 5; i++ {
		if err := w.Write(imu, i*10_000_000, encodeSample(float64(i))); err != nil {
			return err
		}
	}

	if err := w.Write(odom, 25_000_000, encodeSample(1.5)); err != nil {
		return err
	}

	return w.Close()
}

func encodeSample(v float64) []byte {
	enc := cdr.NewEncoder(endian.LittleEndian())
	enc.WriteFloat64(v)

	return enc.Bytes()
}

func read(dir string) error {
	r, err := bagcore.Open(dir)
	if err != nil {
		return err
	}
	defer r.Close()

	fmt.Println("connections:")
	for _, c := range r.Connections() {
		fmt.Printf("  %-12s %-28s %d messages\n", c.Topic, c.Type, c.MessageCount)
	}

	it, err := r.Messages()
	if err != nil {
		return err
	}
	defer it.Close()

	fmt.Println("messages, timestamp order:")
	for it.Next() {
		m := it.Message()
		fmt.Printf("  t=%d topic=%s bytes=%d\n", m.TimestampNs, m.Topic, len(m.Data))
	}

	return it.Err()
}
