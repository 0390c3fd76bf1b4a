package trainer

import (
	"fmt"
	"os"

	"github.com/absmach/fedsim/pkg/fl"
	"github.com/fxamacker/cbor/v2"
)

// SharedData is the persisted task envelope handed to an isolated worker.
// It carries everything the worker needs to run one client's task without
// touching the orchestrator's memory; the model and dataset themselves are
// process-local collaborators referenced by name. The envelope path doubles
// as the response channel: the worker overwrites it with the resulting
// uplink package, so only one party may hold the file at a time.
type SharedData struct {
	ModelName   string             `cbor:"model_name"`
	CID         int                `cbor:"cid"`
	Seed        uint64             `cbor:"seed"`
	Hyperparams fl.Hyperparams     `cbor:"hyperparams"`
	Payload     fl.DownlinkPackage `cbor:"payload"`
	StatePath   string             `cbor:"state_path"`
}

// WriteSharedData overwrites path with the CBOR-encoded envelope.
func WriteSharedData(path string, data SharedData) error {
	blob, err := cbor.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode task envelope: %w", err)
	}
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		return fmt.Errorf("failed to write task envelope: %w", err)
	}

	return nil
}

// ReadSharedData loads the envelope back from path.
func ReadSharedData(path string) (SharedData, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return SharedData{}, fmt.Errorf("failed to read task envelope: %w", err)
	}

	var data SharedData
	if err := cbor.Unmarshal(blob, &data); err != nil {
		return SharedData{}, fmt.Errorf("failed to decode task envelope: %w", err)
	}

	return data, nil
}

// WriteUplink overwrites the envelope at path with the worker's result.
func WriteUplink(path string, pkg fl.UplinkPackage) error {
	blob, err := cbor.Marshal(pkg)
	if err != nil {
		return fmt.Errorf("failed to encode uplink package: %w", err)
	}
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		return fmt.Errorf("failed to write uplink package: %w", err)
	}

	return nil
}

// ReadUplink loads a worker's result from path.
func ReadUplink(path string) (fl.UplinkPackage, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return fl.UplinkPackage{}, fmt.Errorf("failed to read uplink package: %w", err)
	}

	var pkg fl.UplinkPackage
	if err := cbor.Unmarshal(blob, &pkg); err != nil {
		return fl.UplinkPackage{}, fmt.Errorf("failed to decode uplink package: %w", err)
	}

	return pkg, nil
}
