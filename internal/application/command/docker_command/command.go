package docker_command

// DockerCommand runs one orchestration command by name: restart, pull, down,
// up, pause or unpause.
type DockerCommand struct {
	Command string
}

// Name returns the name of the command
func (c DockerCommand) Name() string {
	return "DockerCommand"
}
