// Package cli implements the tunedb command-line interface.
//
// # Commands
//
// resolve - Resolve the tuning parameters of one kernel:
//
//	tunedb resolve --kernel Xgemm --precision single --type GPU \
//	  --vendor "NVIDIA Corporation" --device "Tesla V100"
//	tunedb resolve -k Xgemm -p d -t CPU --vendor Apple --capabilities "$EXT" --format defines
//	tunedb resolve -k Xgemm -p single -t GPU --vendor AMD --overlay tuned.yaml -o params.yaml -f yaml
//
// routine - Resolve every kernel a routine compiles:
//
//	tunedb routine --routine gemm --precision single --type GPU --vendor AMD
//	tunedb routine --kernels Xgemv,XgemvFast --precision half --type GPU --vendor Intel
//
// kernels - List the kernel/precision pairs of the built-in database.
//
// validate - Check a knowledge base for records the search can never reach:
//
//	tunedb validate tuned.yaml
//	tunedb validate --fail-on-findings tuned.yaml
//	tunedb validate            # checks the built-in database
//
// # Global Flags
//
//	--debug        Enable debug logging
//	--log-json     Output logs in JSON format
//	--help, -h     Show command help
//	--version      Show version information
//
// # Output Formats
//
// Every command takes --format json|yaml|table and --output FILE (default
// stdout). resolve and routine also accept --format defines, which prints
// the "#define NAME VALUE" lines ready to be prepended to kernel source.
//
// # Environment Variables
//
//	LOG_LEVEL              Set logging verbosity (debug, info, warn, error)
//	TUNEDB_OVERLAY         Default overlay knowledge base for resolve and routine
package cli
